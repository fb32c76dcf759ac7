//
//Copyright [2016] [SnapRoute Inc]
//
//Licensed under the Apache License, Version 2.0 (the "License");
//you may not use this file except in compliance with the License.
//You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//	 Unless required by applicable law or agreed to in writing, software
//	 distributed under the License is distributed on an "AS IS" BASIS,
//	 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//	 See the License for the specific language governing permissions and
//	 limitations under the License.
//
// _______  __       __________   ___      _______.____    __    ____  __  .___________.  ______  __    __
// |   ____||  |     |   ____\  \ /  /     /       |\   \  /  \  /   / |  | |           | /      ||  |  |  |
// |  |__   |  |     |  |__   \  V  /     |   (----` \   \/    \/   /  |  | `---|  |----`|  ,----'|  |__|  |
// |   __|  |  |     |   __|   >   <       \   \      \            /   |  |     |  |     |  |     |   __   |
// |  |     |  `----.|  |____ /  .  \  .----)   |      \    /\    /    |  |     |  |     |  `----.|  |  |  |
// |__|     |_______||_______/__/ \__\ |_______/        \__/  \__/     |__|     |__|      \______||__|  |__|
//

// bgp_test.go
package packet

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"net"
	"testing"
)

func decodeUpdateHex(t *testing.T, strPkt string, peerAttrs BGPPeerAttrs) (*BGPMessage, error) {
	t.Helper()
	hexPkt, err := hex.DecodeString(strPkt)
	if err != nil {
		t.Fatal("Failed to decode the string to hex, string =", strPkt)
	}

	if len(hexPkt) > math.MaxUint16 {
		t.Fatal("Length of packet exceeded MAX size, packet len =", len(hexPkt))
	}

	pktLen := make([]byte, 2)
	binary.BigEndian.PutUint16(pktLen, uint16(len(hexPkt)+19))
	header := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x02}
	copy(header[16:18], pktLen)

	bgpHeader := NewBGPHeader()
	err = bgpHeader.Decode(header)
	if err != nil {
		t.Fatal("BGP packet header decode failed with error", err)
	}

	bgpMessage := NewBGPMessage()
	err = bgpMessage.Decode(bgpHeader, hexPkt, peerAttrs)
	return bgpMessage, err
}

func TestBGPUpdatePacketDecode(t *testing.T) {
	strPkts := make([]string, 0)
	// With base Path attrs - ORIGIN, AS_PATH (4 byte), NEXT_HOP, MULTI_EXIT_DISC
	strPkts = append(strPkts, "0000001b4001010140020602011908b10a4003040a0a00c280040400000000080a")
	// Added path attrs - LOCAL_PREF, ATOMIC_AGGREGATE
	strPkts = append(strPkts, "000000254001010140020602011908b10a4003040a0a00c28004040000000040050401020304400600080a")
	// Added path attrs - AGGREGATOR (4 byte AS)
	strPkts = append(strPkts, "000000304001010140020602011908b10a4003040a0a00c28004040000000040050401020304400600c007081908b10b0a010a1c080a")
	// Added path attrs - ORIGINATOR_ID, CLUSTER_LIST
	strPkts = append(strPkts, "000000334001010140020602011908b10a4003040a0a00c280040400000000400504010203044006008009040a010a32800a0401020304080a")
	// Added path attrs - MP_REACH_NLRI, MP_UNREACH_NLRI
	strPkts = append(strPkts, "0000004b4001010140020602011908b10a4003040a0a00c280040400000000"+
		"800e1e0002011020010000000000000000000000000001"+"00"+"402001000000000000"+
		"800f0c000201402001000000000000"+"080a")

	peerAttrs := BGPPeerAttrs{
		ASSize:   4,
		PeerType: PeerTypeEBGP,
		LocalAS:  200,
		RemoteAS: 0x1908b10a,
	}

	for _, strPkt := range strPkts {
		_, err := decodeUpdateHex(t, strPkt, peerAttrs)
		if err != nil {
			t.Fatal("BGP update message decode failed with error:", err)
		} else {
			t.Log("BGP update message decode succeeded")
		}
	}
}

func TestBGPUpdatePacketDecode2ByteAS(t *testing.T) {
	strPkts := make([]string, 0)
	// With Path attrs - ORIGIN, AS_PATH (2 byte), NEXT_HOP, AS4_PATH
	strPkts = append(strPkts, "000000214001010140020602025ba0010a4003040a0a00c2c0110a02021908b10a0000010a080a")
	// Added path attrs - AGGREGATOR (2 byte AS), AS4_AGGREGATOR
	strPkts = append(strPkts, "000000354001010140020602025ba0010a4003040a0a00c2c0110a02021908b10a0000010ac007065ba00a010a1cc012081908b10b0a010a1c080a")

	peerAttrs := BGPPeerAttrs{
		ASSize:   2,
		PeerType: PeerTypeEBGP,
		LocalAS:  200,
		RemoteAS: 0x5ba0,
	}

	for _, strPkt := range strPkts {
		_, err := decodeUpdateHex(t, strPkt, peerAttrs)
		if err != nil {
			t.Fatal("BGP update message decode failed with error:", err)
		} else {
			t.Log("BGP update message decode succeeded")
		}
	}
}

func TestBGPUpdatePathAttrsBadFlags(t *testing.T) {
	strPkts := make([]string, 0)
	// ORIGIN with Optional+Transitive flags
	strPkts = append(strPkts, "0000001bc001010140020602011908b10a4003040a0a00c280040400000000080a")
	// ORIGIN missing the Transitive flag
	strPkts = append(strPkts, "0000001b0001010140020602011908b10a4003040a0a00c280040400000000080a")
	// NEXT_HOP with the Optional flag
	strPkts = append(strPkts, "0000001b4001010140020602011908b10a8003040a0a00c280040400000000080a")
	// MULTI_EXIT_DISC with well-known flags
	strPkts = append(strPkts, "0000001b4001010140020602011908b10a4003040a0a00c240040400000000080a")

	peerAttrs := BGPPeerAttrs{
		ASSize:   4,
		PeerType: PeerTypeEBGP,
		RemoteAS: 0x1908b10a,
	}

	for _, strPkt := range strPkts {
		_, err := decodeUpdateHex(t, strPkt, peerAttrs)
		if err == nil {
			t.Error("BGP update message decode called... expected failure, got NO error")
		} else {
			t.Log("BGP update message decode called... expected failure, error:", err)
		}
	}
}

func TestBGPUpdatePathAttrsBadLength(t *testing.T) {
	strPkts := make([]string, 0)
	// ORIGIN with length 2
	strPkts = append(strPkts, "0000001c400102010140020602011908b10a4003040a0a00c280040400000000080a")
	// NEXT_HOP with length 5
	strPkts = append(strPkts, "0000001c4001010140020602011908b10a4003050a0a00c20180040400000000080a")
	// AS_PATH segment claims more ASes than the attribute holds
	strPkts = append(strPkts, "0000001b4001010140020602021908b10a4003040a0a00c280040400000000080a")
	// Attribute section of a single flags byte, too short for a header
	strPkts = append(strPkts, "00000001e0")
	// Extended length 65535 wraps a 16 bit total, the bounds check must not
	strPkts = append(strPkts, "00000008d063ffff01020304")

	peerAttrs := BGPPeerAttrs{
		ASSize:   4,
		PeerType: PeerTypeEBGP,
		RemoteAS: 0x1908b10a,
	}

	for _, strPkt := range strPkts {
		_, err := decodeUpdateHex(t, strPkt, peerAttrs)
		if err == nil {
			t.Error("BGP update message decode called... expected failure, got NO error")
		} else {
			t.Log("BGP update message decode called... expected failure, error:", err)
		}
	}
}

func TestBGPHeaderDecodeErrors(t *testing.T) {
	// Length below the 19 byte minimum
	badLen := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x12, 0x02}
	header := NewBGPHeader()
	if err := header.Decode(badLen); err == nil {
		t.Error("BGP header decode with bad length... expected failure, got NO error")
	}

	// Unknown message type
	badType := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x13, 0x09}
	header = NewBGPHeader()
	if err := header.Decode(badType); err == nil {
		t.Error("BGP header decode with bad type... expected failure, got NO error")
	}
}

func TestBGPUpdateEncode(t *testing.T) {
	nlri := make([]NLRI, 0)
	nlri = append(nlri, NewIPPrefix(net.ParseIP("10.1.0.0").To4(), 16))

	pa := make([]BGPPathAttr, 0)

	origin := NewBGPPathAttrOrigin(BGPPathAttrOriginIncomplete)
	pa = append(pa, origin)

	asPathSeq := NewBGPAS4PathSegmentSeq()
	asPathSeq.AppendAS(1)
	asPathSeq.PrependAS(2)
	asPathSet := NewBGPAS4PathSegmentSet()
	asPathSet.AppendAS(1)
	asPathSet.PrependAS(2)
	asPath := NewBGPPathAttrASPath()
	asPath.PrependASPathSegment(asPathSeq)
	asPath.AppendASPathSegment(asPathSet)
	pa = append(pa, asPath)

	pa = append(pa, NewBGPPathAttrNextHop(net.ParseIP("10.1.10.1").To4()))
	pa = append(pa, NewBGPPathAttrMultiExitDisc(1))
	pa = append(pa, NewBGPPathAttrLocalPref(100))
	pa = append(pa, NewBGPPathAttrAtomicAggregate())
	pa = append(pa, NewBGPPathAttrAggregator(4, 200, net.ParseIP("20.1.20.1").To4()))
	pa = append(pa, NewBGPPathAttrOriginatorId(net.ParseIP("30.1.30.1").To4()))

	clusterList := NewBGPPathAttrClusterList()
	clusterList.PrependId(1234)
	pa = append(pa, clusterList)

	mpReachNLRI := NewBGPPathAttrMPReachNLRI(AfiIP6, SafiUnicast)
	mpNextHop := NewMPNextHopIP6()
	if err := mpNextHop.SetGlobalNextHop(net.ParseIP("2001::1")); err != nil {
		t.Fatal("SetGlobalNextHop failed with error:", err)
	}
	mpReachNLRI.SetNextHop(mpNextHop)
	mpReachNLRI.AddNLRI(NewIPPrefix(net.ParseIP("2001:db8::").To16(), 32))
	pa = append(pa, mpReachNLRI)

	mpUnreachNLRI := NewBGPPathAttrMPUnreachNLRI(AfiIP6, SafiUnicast)
	mpUnreachNLRI.AddNLRI(NewIPPrefix(net.ParseIP("2001:db9::").To16(), 32))
	pa = append(pa, mpUnreachNLRI)

	updateMsg := NewBGPUpdateMessage(make([]NLRI, 0), pa, nlri)
	pkt, err := updateMsg.Encode()
	if err != nil {
		t.Fatal("BGP update message encode failed with error:", err)
	}
	t.Log("BGP update message:", pkt)

	newUpdateMsg := updateMsg.Clone()
	newPkt, err := newUpdateMsg.Encode()
	if err != nil {
		t.Fatal("Cloned BGP update message encode failed with error:", err)
	}
	t.Log("Cloned BGP update message:", newPkt)

	if !bytes.Equal(pkt, newPkt) {
		t.Fatal("Cloned update message is not the same as the original message")
	}
}

func TestBGPNotificationRoundTrip(t *testing.T) {
	msgErr := BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, []byte{0x01, 0x02}, "bad length"}
	notifMsg := NewBGPNotificationMessage(msgErr)
	pkt, err := notifMsg.Encode()
	if err != nil {
		t.Fatal("BGP notification message encode failed with error:", err)
	}

	header := NewBGPHeader()
	if err = header.Decode(pkt[:BGPMsgHeaderLen]); err != nil {
		t.Fatal("BGP notification header decode failed with error:", err)
	}

	decoded := NewBGPMessage()
	if err = decoded.Decode(header, pkt[BGPMsgHeaderLen:], BGPPeerAttrs{}); err != nil {
		t.Fatal("BGP notification message decode failed with error:", err)
	}

	notif := decoded.Body.(*BGPNotification)
	if notif.ErrorCode != BGPUpdateMsgError || notif.ErrorSubcode != BGPAttrLenError {
		t.Fatal("BGP notification codes do not match, got", notif.ErrorCode, notif.ErrorSubcode)
	}
	if !bytes.Equal(notif.Data, []byte{0x01, 0x02}) {
		t.Fatal("BGP notification data does not match, got", notif.Data)
	}
}
