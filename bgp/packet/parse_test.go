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

// parse_test.go
package packet

import (
	"encoding/hex"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// ORIGIN igp, AS_PATH {420000010}, NEXT_HOP 10.10.0.194,
	// MED 200, COMMUNITIES {65546}
	validAttrsHex = "40010100" + "4002060201" + "1908b10a" + "4003040a0a00c2" +
		"800404000000c8" + "c00804" + "0001000a"
)

func parsePathAttrsHex(t *testing.T, strPkt string, peerAttrs BGPPeerAttrs, tables *AttrTables) (
	*AttrRecord, *MPNLRIInfo, PathAttrParseResult, *BGPMessageError) {
	t.Helper()
	pkt, err := hex.DecodeString(strPkt)
	require.NoError(t, err, "hex decode failed")
	return ParsePathAttrs(pkt, peerAttrs, tables)
}

func TestParsePathAttrsValid(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}
	rec, mpInfo, result, msgErr := parsePathAttrsHex(t, validAttrsHex, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)

	assert.Equal(t, BGPPathAttrOriginIGP, rec.Origin)
	assert.True(t, rec.HasAttr(BGPPathAttrTypeOrigin))
	require.NotNil(t, rec.ASPath)
	assert.Equal(t, uint32(1), rec.ASPath.NumHops())
	assert.Equal(t, uint32(420000010), rec.ASPath.FirstAS())
	assert.Equal(t, net.ParseIP("10.10.0.194").To4(), rec.NextHop)
	assert.Equal(t, uint32(200), rec.MED)
	require.NotNil(t, rec.Community)
	assert.Equal(t, []uint32{65546}, rec.Community.Value)
	assert.Nil(t, mpInfo.Reach)
	assert.Nil(t, mpInfo.Unreach)
}

func TestParsePathAttrsDuplicate(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}
	_, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex+"40010100", peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPMalformedAttrList, msgErr.SubTypeCode)
}

func TestParsePathAttrsTruncated(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}

	// Attribute length overruns the section
	_, _, result, msgErr := parsePathAttrsHex(t, "40010400", peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPAttrLenError, msgErr.SubTypeCode)

	// Section ends inside an attribute header
	_, _, result, msgErr = parsePathAttrsHex(t, "4001", peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPAttrLenError, msgErr.SubTypeCode)
}

func TestParsePathAttrsLocalPref(t *testing.T) {
	// ORIGIN, empty AS_PATH, NEXT_HOP, LOCAL_PREF 150
	strPkt := "40010100" + "400200" + "4003040a0a00c2" + "40050400000096"

	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, RemoteAS: 100}
	rec, _, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	assert.True(t, rec.HasAttr(BGPPathAttrTypeLocalPref))
	assert.Equal(t, uint32(150), rec.LocalPref)

	// The same section from an EBGP peer has its LOCAL_PREF ignored
	peerAttrs = BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 100}
	rec, _, result, msgErr = parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	assert.False(t, rec.HasAttr(BGPPathAttrTypeLocalPref))
	assert.Equal(t, uint32(0), rec.LocalPref)
}

func TestParsePathAttrsMissingMandatory(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}

	// ORIGIN and AS_PATH but no NEXT_HOP and no MP_REACH_NLRI
	strPkt := "40010100" + "4002060201" + "1908b10a"
	_, _, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPMissingWellKnownAttr, msgErr.SubTypeCode)
	assert.Equal(t, []byte{uint8(BGPPathAttrTypeNextHop)}, msgErr.Data)

	// IBGP additionally requires LOCAL_PREF
	strPkt = "40010100" + "400200" + "4003040a0a00c2"
	peerAttrs = BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, RemoteAS: 100}
	_, _, result, msgErr = parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPMissingWellKnownAttr, msgErr.SubTypeCode)
	assert.Equal(t, []byte{uint8(BGPPathAttrTypeLocalPref)}, msgErr.Data)
}

func TestParsePathAttrsMPUnreachOnly(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 100}

	// A pure withdraw carries only MP_UNREACH_NLRI and skips the mandatory set
	strPkt := "800f0c000201402001000000000000"
	rec, mpInfo, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	require.NotNil(t, mpInfo.Unreach)
	assert.Equal(t, AfiIP6, mpInfo.Unreach.AFI)
	require.Len(t, mpInfo.Unreach.NLRI, 1)
	assert.Equal(t, "2001::/64", mpInfo.Unreach.NLRI[0].GetCIDR())
	assert.True(t, rec.HasAttr(BGPPathAttrTypeMPUnreachNLRI))
}

func TestParsePathAttrsUnknownTransitive(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}

	// Unknown type 99, optional transitive, gets stashed with the Partial bit
	rec, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex+"c06303010203", peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	require.NotNil(t, rec.Extra)
	require.NotNil(t, rec.Extra.Transit)

	expected, _ := hex.DecodeString("e06303010203")
	assert.Equal(t, expected, rec.Extra.Transit.Value)

	// The stash is re-emitted verbatim after the known attributes
	pkt, err := EncodePathAttrs(nil, rec.Extra.Transit)
	require.NoError(t, err)
	assert.Equal(t, expected, pkt)
}

func TestParsePathAttrsUnknownNonTransitive(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}

	// Unknown optional non-transitive attributes are quietly dropped
	rec, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex+"806303010203", peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	if rec.Extra != nil {
		assert.Nil(t, rec.Extra.Transit)
	}
}

func TestParsePathAttrsUnknownWellKnown(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}

	_, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex+"40630100", peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPUnrecognizedWellKnownAttr, msgErr.SubTypeCode)
}

func TestParsePathAttrsMalformedPartialWithdraw(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}

	// A damaged partial TUNNEL_ENCAP from an EBGP peer demotes the UPDATE
	// to a withdraw instead of resetting the session
	rec, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex+"e0170100", peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseWithdraw, result)
	assert.False(t, rec.HasAttr(BGPPathAttrTypeEncap))
}

func TestParsePathAttrsMalformedAggregator(t *testing.T) {
	// AGGREGATOR with a 5 byte body cannot decode
	badAgg := "c0070500000001ff"

	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}
	rec, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex+badAgg, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	assert.False(t, rec.HasAttr(BGPPathAttrTypeAggregator))

	// An IBGP peer still gets the session reset treatment
	strPkt := "40010100" + "400200" + "4003040a0a00c2" + "40050400000096" + badAgg
	peerAttrs = BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, RemoteAS: 100}
	_, _, result, msgErr = parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
}

func TestParsePathAttrsMartianNextHop(t *testing.T) {
	strPkt := "40010100" + "4002060201" + "1908b10a" + "4003047f000001"

	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}
	_, _, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPInvalidNextHopAttr, msgErr.SubTypeCode)

	peerAttrs.AllowMartianNextHop = true
	rec, _, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
	assert.Equal(t, net.ParseIP("127.0.0.1").To4(), rec.NextHop)
}

func TestParsePathAttrsEnforceFirstAS(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 200, EnforceFirstAS: true}
	_, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex, peerAttrs, nil)
	require.Equal(t, BGPPathAttrParseError, result)
	require.NotNil(t, msgErr)
	assert.Equal(t, BGPMalformedASPath, msgErr.SubTypeCode)

	peerAttrs.RemoteAS = 420000010
	_, _, result, msgErr = parsePathAttrsHex(t, validAttrsHex, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
}

func TestParsePathAttrsConfedFromNonConfedPeer(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 100}

	// AS_PATH with an AS_CONFED_SEQUENCE segment from a plain EBGP peer
	strPkt := "40010100" + "400206030100000064" + "4003040a0a00c2"
	rec, _, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseWithdraw, result)
	require.NotNil(t, rec.ASPath)
	assert.True(t, rec.ASPath.HasConfedSegments())

	// A confederation member peer is allowed to send them
	peerAttrs.PeerType = PeerTypeConfedMember
	_, _, result, msgErr = parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)
}

func TestParsePathAttrsTwoByteASWidened(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 2, PeerType: PeerTypeEBGP, RemoteAS: 23456}

	// 2 byte AS_PATH {AS_TRANS} plus AS4_PATH {420000010}
	strPkt := "40010100" + "400204" + "02015ba0" + "4003040a0a00c2" +
		"c0110602011908b10a"
	rec, _, result, msgErr := parsePathAttrsHex(t, strPkt, peerAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)

	require.NotNil(t, rec.ASPath)
	assert.Equal(t, uint32(1), rec.ASPath.NumHops())
	assert.Equal(t, uint32(420000010), rec.ASPath.FirstAS())
	assert.False(t, rec.HasAttr(BGPPathAttrTypeAS4Path))
}

func TestParsePathAttrsInterning(t *testing.T) {
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 420000010}
	tables := NewAttrTables()
	defer tables.Shutdown()

	rec1, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex, peerAttrs, tables)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)

	rec2, _, result, msgErr := parsePathAttrsHex(t, validAttrsHex, peerAttrs, tables)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)

	assert.Same(t, rec1, rec2, "identical sections must share one record")
	assert.Equal(t, uint32(2), tables.Attr.RefCount(rec1))
	assert.Equal(t, 1, tables.AttrCount())

	tables.UninternAttr(rec1)
	tables.UninternAttr(rec2)
	assert.Equal(t, 0, tables.AttrCount())
	assert.Equal(t, 0, tables.ASPath.Count())
	assert.Equal(t, 0, tables.Community.Count())
}
