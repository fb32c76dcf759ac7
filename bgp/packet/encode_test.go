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

// encode_test.go
package packet

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSortedByCode(t *testing.T, pathAttrs []BGPPathAttr) {
	t.Helper()
	for i := 1; i < len(pathAttrs); i++ {
		assert.Less(t, uint8(pathAttrs[i-1].GetCode()), uint8(pathAttrs[i].GetCode()),
			"attribute list must be sorted by type code")
	}
}

func TestBuildPathAttrsEBGP(t *testing.T) {
	rec := newTestRecord()
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, LocalAS: 300,
		RemoteAS: 500, SendCommunity: true}

	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assertSortedByCode(t, pathAttrs)

	require.NotNil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeOrigin))
	require.NotNil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeNextHop))
	require.NotNil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeCommunities))
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeLocalPref),
		"LOCAL_PREF must not go to an EBGP peer")

	asPath := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeASPath).(*BGPPathAttrASPath)
	assert.Equal(t, uint32(3), asPath.NumHops())
	assert.Equal(t, uint32(300), asPath.FirstAS())
}

func TestBuildPathAttrsIBGP(t *testing.T) {
	rec := newTestRecord()
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, LocalAS: 300, RemoteAS: 300}

	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assertSortedByCode(t, pathAttrs)

	// The path is not touched for an internal peer
	asPath := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeASPath).(*BGPPathAttrASPath)
	assert.Equal(t, uint32(2), asPath.NumHops())
	assert.Equal(t, uint32(100), asPath.FirstAS())

	// A record without LOCAL_PREF gets the default
	localPref := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeLocalPref)
	require.NotNil(t, localPref)
	assert.Equal(t, BGPAttrDefaultLocalPref, localPref.(*BGPPathAttrLocalPref).Value)

	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeCommunities),
		"communities stay home unless the peer asked for them")
}

func TestBuildPathAttrsTwoBytePeer(t *testing.T) {
	rec := newTestRecord()
	rec.ASPath = newASPathSeq(420000010, 100)
	peerAttrs := BGPPeerAttrs{ASSize: 2, PeerType: PeerTypeEBGP, LocalAS: 65001, RemoteAS: 65002}

	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assertSortedByCode(t, pathAttrs)

	// The unmappable AS becomes AS_TRANS on the wire
	asPath := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeASPath).(*BGPPathAttrASPath)
	assert.Equal(t, uint32(65001), asPath.FirstAS())
	assert.True(t, asPath.ContainsAS(uint32(BGPASTrans)))
	assert.False(t, asPath.ContainsAS(420000010))

	// with the real path shadowed in AS4_PATH
	as4Path := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeAS4Path)
	require.NotNil(t, as4Path)
}

func TestBuildPathAttrsTwoBytePeerMappable(t *testing.T) {
	rec := newTestRecord()
	peerAttrs := BGPPeerAttrs{ASSize: 2, PeerType: PeerTypeEBGP, LocalAS: 65001, RemoteAS: 65002}

	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeAS4Path),
		"a fully mappable path needs no AS4_PATH")
}

func TestBuildPathAttrsAggregatorTwoBytePeer(t *testing.T) {
	rec := newTestRecord()
	extra := rec.GetExtra()
	extra.AggregatorAS = 420000010
	extra.AggregatorAddr = net.ParseIP("10.0.0.1").To4()
	rec.SetAttr(BGPPathAttrTypeAggregator)

	peerAttrs := BGPPeerAttrs{ASSize: 2, PeerType: PeerTypeEBGP, LocalAS: 65001, RemoteAS: 65002}
	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assertSortedByCode(t, pathAttrs)

	agg := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeAggregator)
	require.NotNil(t, agg)
	assert.Equal(t, uint32(BGPASTrans), agg.(*BGPPathAttrAggregator).AS)

	as4Agg := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeAS4Aggregator)
	require.NotNil(t, as4Agg)
	assert.Equal(t, uint32(420000010), as4Agg.(*BGPPathAttrAS4Aggregator).AS)
}

func TestBuildPathAttrsReflection(t *testing.T) {
	rec := newTestRecord()
	extra := rec.GetExtra()
	extra.Cluster = NewClusterList([]uint32{5})

	from := &BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, RemoteAS: 300,
		RouterId: net.ParseIP("1.1.1.1").To4()}
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, LocalAS: 300, RemoteAS: 300,
		HasClusterId: true, ClusterId: 9}

	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, from, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assertSortedByCode(t, pathAttrs)

	originatorId := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeOriginatorId)
	require.NotNil(t, originatorId)
	assert.Equal(t, net.ParseIP("1.1.1.1").To4(), originatorId.(*BGPPathAttrOriginatorId).Value)

	clusterList := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeClusterList)
	require.NotNil(t, clusterList)
	assert.Equal(t, []uint32{9, 5}, clusterList.(*BGPPathAttrClusterList).Value)

	// Reflecting to an external peer drops both attributes
	peerAttrs.PeerType = PeerTypeEBGP
	pathAttrs, err = BuildPathAttrs(rec, peerAttrs, from, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeOriginatorId))
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeClusterList))

	// Confed member sessions are internal but not IBGP, no reflection
	// attributes in either direction
	peerAttrs.PeerType = PeerTypeConfedMember
	pathAttrs, err = BuildPathAttrs(rec, peerAttrs, from, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeOriginatorId))
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeClusterList))

	peerAttrs.PeerType = PeerTypeIBGP
	from.PeerType = PeerTypeConfedMember
	pathAttrs, err = BuildPathAttrs(rec, peerAttrs, from, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeOriginatorId))
	assert.Nil(t, getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeClusterList))
}

func TestBuildPathAttrsChangeLocalAS(t *testing.T) {
	rec := newTestRecord()
	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, LocalAS: 300, RemoteAS: 500,
		ChangeLocalAS: 700}

	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	asPath := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeASPath).(*BGPPathAttrASPath)
	assert.Equal(t, uint32(700), asPath.FirstAS())
	assert.True(t, asPath.ContainsAS(300))

	peerAttrs.ReplaceLocalAS = true
	pathAttrs, err = BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	asPath = getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeASPath).(*BGPPathAttrASPath)
	assert.Equal(t, uint32(700), asPath.FirstAS())
	assert.False(t, asPath.ContainsAS(300))
}

func TestBuildPathAttrsVPNNextHopWrap(t *testing.T) {
	rec := newTestRecord()
	mpReach := NewBGPPathAttrMPReachNLRI(AfiIP, SafiMplsVpn)
	nextHop := NewMPNextHopIP()
	require.NoError(t, nextHop.SetNextHop(net.ParseIP("10.0.0.1")))
	mpReach.SetNextHop(nextHop)

	peerAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeIBGP, LocalAS: 300, RemoteAS: 300}
	pathAttrs, err := BuildPathAttrs(rec, peerAttrs, nil, AfiIP, SafiMplsVpn, mpReach, nil)
	require.NoError(t, err)

	reach, _ := GetMPAttrs(pathAttrs)
	require.NotNil(t, reach)
	assert.Equal(t, uint8(12), reach.NextHop.(*MPNextHopIP).Length,
		"VPN next hop carries a zero route distinguisher")
}

func TestEncodePathAttrsRoundTrip(t *testing.T) {
	rec := newTestRecord()
	sendAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, LocalAS: 300, RemoteAS: 500,
		SendCommunity: true}

	pathAttrs, err := BuildPathAttrs(rec, sendAttrs, nil, AfiIP, SafiUnicast, nil, nil)
	require.NoError(t, err)
	pkt, err := EncodePathAttrs(pathAttrs, nil)
	require.NoError(t, err)

	recvAttrs := BGPPeerAttrs{ASSize: 4, PeerType: PeerTypeEBGP, RemoteAS: 300}
	rec2, _, result, msgErr := ParsePathAttrs(pkt, recvAttrs, nil)
	require.Nil(t, msgErr)
	require.Equal(t, BGPPathAttrParseProceed, result)

	assert.Equal(t, rec.Origin, rec2.Origin)
	assert.Equal(t, uint32(3), rec2.ASPath.NumHops())
	assert.Equal(t, uint32(300), rec2.ASPath.FirstAS())
	assert.Equal(t, rec.NextHop, rec2.NextHop)
	require.NotNil(t, rec2.Community)
	assert.Equal(t, rec.Community.Value, rec2.Community.Value)
}
