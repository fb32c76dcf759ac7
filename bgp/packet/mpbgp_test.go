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

// mpbgp_test.go
package packet

import (
	"encoding/hex"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMPReachHex(t *testing.T, strPkt string, peerAttrs BGPPeerAttrs) (*BGPPathAttrMPReachNLRI, error) {
	t.Helper()
	pkt, err := hex.DecodeString(strPkt)
	require.NoError(t, err, "hex decode failed")

	mpReach := &BGPPathAttrMPReachNLRI{}
	err = mpReach.Decode(pkt, peerAttrs)
	return mpReach, err
}

func TestMPNextHopIPv4VPN(t *testing.T) {
	// Length 12 carries an 8 byte route distinguisher in front of the address
	pkt, _ := hex.DecodeString("0c00000000000000000a0a00c2")
	nh := &MPNextHopIP{}
	require.NoError(t, nh.Decode(pkt))
	assert.Equal(t, uint8(12), nh.Length)
	assert.Equal(t, net.ParseIP("10.10.0.194").To4(), nh.Value)
	assert.Equal(t, uint8(13), nh.Len())
}

func TestMPNextHopBadLength(t *testing.T) {
	pkt, _ := hex.DecodeString("050a0a00c201")
	nh := &MPNextHopIP{}
	assert.Error(t, nh.Decode(pkt), "next hop length 5 must not decode")

	pkt, _ = hex.DecodeString("1120010000000000000000000000000001ff")
	nh6 := &MPNextHopIP6{}
	assert.Error(t, nh6.Decode(pkt), "next hop length 17 must not decode")
}

func TestMPNextHopIP6LinkLocal(t *testing.T) {
	// Length 32 with a proper link-local second address
	pkt, _ := hex.DecodeString("2020010000000000000000000000000001fe80000000000000000000000000000a")
	nh := &MPNextHopIP6{}
	require.NoError(t, nh.Decode(pkt))
	assert.Equal(t, uint8(32), nh.SemanticLen)
	assert.Equal(t, net.ParseIP("2001::1").To16(), nh.Global)
	assert.Equal(t, net.ParseIP("fe80::a").To16(), nh.LinkLocal)
}

func TestMPNextHopIP6LinkLocalDowngrade(t *testing.T) {
	// Length 32 but the second address is global, so it gets dropped
	pkt, _ := hex.DecodeString("2020010000000000000000000000000001200100000000000000000000000000ff")
	nh := &MPNextHopIP6{}
	require.NoError(t, nh.Decode(pkt))
	assert.Equal(t, uint8(16), nh.SemanticLen)
	assert.Nil(t, nh.LinkLocal)
	assert.Equal(t, uint8(32), nh.Length, "wire length stays 32 so the cursor stays in sync")
}

func TestMPNextHopIP6VPN(t *testing.T) {
	// Length 48, a route distinguisher in front of each address
	pkt, _ := hex.DecodeString("30" + "0000000000000000" + "20010000000000000000000000000001" +
		"0000000000000000" + "fe80000000000000000000000000000a")
	nh := &MPNextHopIP6{}
	require.NoError(t, nh.Decode(pkt))
	assert.Equal(t, uint8(32), nh.SemanticLen)
	assert.Equal(t, net.ParseIP("2001::1").To16(), nh.Global)
	assert.Equal(t, net.ParseIP("fe80::a").To16(), nh.LinkLocal)
}

func TestMPReachDecodeUnicast(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP}
	strPkt := "800e1e0002011020010000000000000000000000000001" + "00" + "402001000000000000"
	mpReach, err := decodeMPReachHex(t, strPkt, peerAttrs)
	require.NoError(t, err)

	assert.Equal(t, AfiIP6, mpReach.AFI)
	assert.Equal(t, SafiUnicast, mpReach.SAFI)
	require.Len(t, mpReach.NLRI, 1)
	assert.Equal(t, uint8(64), mpReach.NLRI[0].GetLength())
	assert.Equal(t, net.ParseIP("2001::1").To16(), mpReach.NextHop.GetNextHop())
}

func TestMPReachDecodeVPN(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP}
	// AFI 1, SAFI 128, next hop length 12 with a zero route distinguisher.
	// The VPN NLRI stays raw.
	strPkt := "800e18000180" + "0c00000000000000000a0a00c2" + "00" + "7000000100020304"
	mpReach, err := decodeMPReachHex(t, strPkt, peerAttrs)
	require.NoError(t, err)

	assert.Equal(t, AfiIP, mpReach.AFI)
	assert.Equal(t, SafiMplsVpn, mpReach.SAFI)
	assert.Empty(t, mpReach.NLRI)
	rawNLRI, _ := hex.DecodeString("7000000100020304")
	assert.Equal(t, rawNLRI, mpReach.NLRIData)
	assert.Equal(t, net.ParseIP("10.10.0.194").To4(), mpReach.NextHop.GetNextHop())
}

func TestMPReachDecodeErrors(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP}

	// Attribute shorter than AFI+SAFI+nexthop length+reserved
	_, err := decodeMPReachHex(t, "800e04000201ff", peerAttrs)
	assert.Error(t, err, "MP_REACH_NLRI with length 4 must not decode")

	// Next hop length 5 is not a defined variant
	_, err = decodeMPReachHex(t, "800e0b000201050a0a00c2010000", peerAttrs)
	assert.Error(t, err, "next hop length 5 must not decode")

	// Next hop length overruns the attribute
	_, err = decodeMPReachHex(t, "800e07000201100a0a00c2", peerAttrs)
	assert.Error(t, err, "overlong next hop must not decode")
}

func TestMPReachEncodeRoundTrip(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP}

	mpReach := NewBGPPathAttrMPReachNLRI(AfiIP6, SafiUnicast)
	nh := NewMPNextHopIP6()
	require.NoError(t, nh.SetGlobalNextHop(net.ParseIP("2001::1")))
	mpReach.SetNextHop(nh)
	mpReach.AddNLRI(NewIPPrefix(net.ParseIP("2001:db8::").To16(), 32))

	pkt, err := mpReach.Encode()
	require.NoError(t, err)

	decoded := &BGPPathAttrMPReachNLRI{}
	require.NoError(t, decoded.Decode(pkt, peerAttrs))
	assert.Equal(t, mpReach.AFI, decoded.AFI)
	assert.Equal(t, mpReach.SAFI, decoded.SAFI)
	assert.Equal(t, nh.Global, decoded.NextHop.GetNextHop())
	require.Len(t, decoded.NLRI, 1)
	assert.Equal(t, "2001:db8::/32", decoded.NLRI[0].GetCIDR())
}

func TestMPUnreachRoundTrip(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP}

	mpUnreach := NewBGPPathAttrMPUnreachNLRI(AfiIP6, SafiUnicast)
	mpUnreach.AddNLRI(NewIPPrefix(net.ParseIP("2001:db9::").To16(), 32))

	pkt, err := mpUnreach.Encode()
	require.NoError(t, err)

	decoded := &BGPPathAttrMPUnreachNLRI{}
	require.NoError(t, decoded.Decode(pkt, peerAttrs))
	assert.Equal(t, AfiIP6, decoded.AFI)
	assert.Equal(t, SafiUnicast, decoded.SAFI)
	require.Len(t, decoded.NLRI, 1)
	assert.Equal(t, "2001:db9::/32", decoded.NLRI[0].GetCIDR())
}
