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

// encode.go
package packet

import (
	"encoding/binary"
	"net"
)

const BGPAttrDefaultLocalPref uint32 = 100

type PathAttrs []BGPPathAttr

func (p PathAttrs) Len() int {
	return len(p)
}

func (p PathAttrs) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

func (p PathAttrs) Less(i, j int) bool {
	return p[i].GetCode() < p[j].GetCode()
}

// AddPathAttrToPathAttrsByCode inserts attr keeping the list sorted by
// ascending type code.
func AddPathAttrToPathAttrsByCode(pathAttrs []BGPPathAttr, code BGPPathAttrType, attr BGPPathAttr) []BGPPathAttr {
	addIdx := -1
	for idx, pa := range pathAttrs {
		if pa.GetCode() > code {
			addIdx = idx
			break
		}
	}

	if addIdx == -1 {
		addIdx = len(pathAttrs)
	}

	pathAttrs = append(pathAttrs, attr)
	copy(pathAttrs[addIdx+1:], pathAttrs[addIdx:])
	pathAttrs[addIdx] = attr
	return pathAttrs
}

func addPathAttrToPathAttrs(pathAttrs []BGPPathAttr, attr BGPPathAttr) []BGPPathAttr {
	if attr != nil {
		return AddPathAttrToPathAttrsByCode(pathAttrs, attr.GetCode(), attr)
	}
	return pathAttrs
}

func getTypeFromPathAttrs(pathAttrs []BGPPathAttr, code BGPPathAttrType) BGPPathAttr {
	for _, pa := range pathAttrs {
		if pa.GetCode() == code {
			return pa
		}
	}
	return nil
}

func removeTypeFromPathAttrs(pathAttrs *[]BGPPathAttr, code BGPPathAttrType) BGPPathAttr {
	for idx, pa := range *pathAttrs {
		if pa.GetCode() == code {
			*pathAttrs = append((*pathAttrs)[:idx], (*pathAttrs)[idx+1:]...)
			return pa
		}
	}
	return nil
}

func GetMPAttrs(pathAttrs []BGPPathAttr) (mpReach *BGPPathAttrMPReachNLRI, mpUnreach *BGPPathAttrMPUnreachNLRI) {
	if reach := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeMPReachNLRI); reach != nil {
		mpReach = reach.(*BGPPathAttrMPReachNLRI)
	}
	if unreach := getTypeFromPathAttrs(pathAttrs, BGPPathAttrTypeMPUnreachNLRI); unreach != nil {
		mpUnreach = unreach.(*BGPPathAttrMPUnreachNLRI)
	}
	return mpReach, mpUnreach
}

// buildOutboundASPath applies the per-peer AS_PATH transforms: EBGP peers
// get confed segments stripped and the local AS prepended, confed members
// get the local AS prepended inside a confed sequence, IBGP peers see the
// path unchanged.
func buildOutboundASPath(rec *AttrRecord, peerAttrs BGPPeerAttrs) *BGPPathAttrASPath {
	var asPath *BGPPathAttrASPath
	if rec.ASPath != nil {
		asPath = rec.ASPath.CloneASPath()
	} else {
		asPath = NewBGPPathAttrASPath()
	}

	if peerAttrs.ASPathUnchanged {
		return asPath
	}

	switch {
	case peerAttrs.PeerType == PeerTypeConfedMember:
		asPath.PrependConfedAS(peerAttrs.LocalAS)

	case peerAttrs.IsEBGP():
		asPath = asPath.CloneWithoutConfedSegments()
		if peerAttrs.ChangeLocalAS != 0 {
			if !peerAttrs.ReplaceLocalAS {
				asPath.PrependAS(peerAttrs.LocalAS)
			}
			asPath.PrependAS(peerAttrs.ChangeLocalAS)
		} else {
			asPath.PrependAS(peerAttrs.LocalAS)
		}
	}

	return asPath
}

// wrapMPReachVPN widens the MP_REACH_NLRI next hop to the VPN wire form
// with zero route distinguishers and fixes up the attribute length.
func wrapMPReachVPN(mpReach *BGPPathAttrMPReachNLRI) {
	oldLen := mpReach.NextHop.Len()
	switch nh := mpReach.NextHop.(type) {
	case *MPNextHopIP:
		nh.WrapRouteDistinguisher()
	case *MPNextHopIP6:
		nh.WrapRouteDistinguisher()
	}
	mpReach.BGPPathAttrBase.Length += uint16(mpReach.NextHop.Len() - oldLen)
}

// BuildPathAttrs assembles the outbound path attribute list for one peer
// from an attribute record, sorted by type code. from describes the peer
// the route was learned from and drives route reflection, it is nil for
// locally originated routes. mpReachNLRI and mpUnreachNLRI are inserted as
// given, with VPN next hops widened here.
func BuildPathAttrs(rec *AttrRecord, peerAttrs BGPPeerAttrs, from *BGPPeerAttrs, afi AFI, safi SAFI,
	mpReachNLRI *BGPPathAttrMPReachNLRI, mpUnreachNLRI *BGPPathAttrMPUnreachNLRI) ([]BGPPathAttr, error) {
	pathAttrs := make([]BGPPathAttr, 0)

	pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrOrigin(rec.Origin))

	asPath := buildOutboundASPath(rec, peerAttrs)
	if peerAttrs.ASSize == 2 {
		as2Path, mappable := asPath.Convert4ByteTo2Byte()
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, as2Path)
		if !mappable {
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, asPath.ToAS4Path())
		}
	} else {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, asPath)
	}

	if afi == AfiIP && safi == SafiUnicast && rec.NextHop != nil {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrNextHop(rec.NextHop))
	}

	if rec.HasAttr(BGPPathAttrTypeMultiExitDisc) {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrMultiExitDisc(rec.MED))
	}

	if !peerAttrs.IsEBGP() {
		pref := rec.LocalPref
		if !rec.HasAttr(BGPPathAttrTypeLocalPref) {
			pref = BGPAttrDefaultLocalPref
		}
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrLocalPref(pref))
	}

	if rec.HasAttr(BGPPathAttrTypeAtomicAggregate) {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrAtomicAggregate())
	}

	if rec.HasAttr(BGPPathAttrTypeAggregator) && rec.Extra != nil {
		aggAS := rec.Extra.AggregatorAS
		aggAddr := rec.Extra.AggregatorAddr
		if aggAddr == nil {
			aggAddr = net.IPv4zero
		}
		if peerAttrs.ASSize == 2 && aggAS > uint32(^uint16(0)) {
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrAggregator(2, BGPASTrans, aggAddr))
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrAS4Aggregator(aggAS, aggAddr))
		} else {
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrAggregator(peerAttrs.ASSize, aggAS, aggAddr))
		}
	}

	if rec.Community != nil && peerAttrs.SendCommunity {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrCommunities(rec.Community.Value))
	}

	// Reflection attributes only travel IBGP to IBGP, confed member
	// sessions never carry them
	if from != nil && from.PeerType == PeerTypeIBGP && peerAttrs.PeerType == PeerTypeIBGP {
		originatorId := from.RouterId
		if rec.Extra != nil && rec.Extra.OriginatorId != nil {
			originatorId = rec.Extra.OriginatorId
		}
		if originatorId != nil {
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrOriginatorId(originatorId))
		}

		clusterId := peerAttrs.ClusterId
		if !peerAttrs.HasClusterId && from.RouterId != nil && from.RouterId.To4() != nil {
			clusterId = binary.BigEndian.Uint32(from.RouterId.To4())
		}
		clusterList := NewBGPPathAttrClusterList()
		if rec.Extra != nil && rec.Extra.Cluster != nil {
			for i := len(rec.Extra.Cluster.List) - 1; i >= 0; i-- {
				clusterList.PrependId(rec.Extra.Cluster.List[i])
			}
		}
		clusterList.PrependId(clusterId)
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, clusterList)
	}

	if rec.Extra != nil && rec.Extra.ExtCommunity != nil && peerAttrs.SendExtCommunity {
		ecomms := rec.Extra.ExtCommunity.Value
		if peerAttrs.IsEBGP() {
			ecomms = rec.Extra.ExtCommunity.TransitiveOnly()
		}
		if len(ecomms) > 0 {
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrExtCommunities(ecomms))
		}
	}

	if rec.Extra != nil && rec.Extra.LargeCommunity != nil && peerAttrs.SendLargeCommunity {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, NewBGPPathAttrLargeCommunities(rec.Extra.LargeCommunity.Value))
	}

	if mpReachNLRI != nil {
		if IsVPNSafi(mpReachNLRI.SAFI) {
			wrapMPReachVPN(mpReachNLRI)
		}
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, mpReachNLRI)
	}
	if mpUnreachNLRI != nil {
		pathAttrs = addPathAttrToPathAttrs(pathAttrs, mpUnreachNLRI)
	}

	if rec.Extra != nil && rec.Extra.EncapSubTLVs != nil && (IsVPNSafi(safi) || safi == SafiEncap) {
		if encap := NewBGPPathAttrEncap(rec.Extra.EncapTunnelType, CloneEncapSubTLVs(rec.Extra.EncapSubTLVs)); encap != nil {
			pathAttrs = addPathAttrToPathAttrs(pathAttrs, encap)
		}
	}

	return pathAttrs, nil
}

// EncodePathAttrs serializes an attribute list, appending the transit blob
// of unrecognized optional transitive attributes verbatim at the end.
func EncodePathAttrs(pathAttrs []BGPPathAttr, transit *Transit) ([]byte, error) {
	pkt := make([]byte, 0, 64)
	for _, pa := range pathAttrs {
		bytes, err := pa.Encode()
		if err != nil {
			return nil, err
		}
		pkt = append(pkt, bytes...)
	}
	if transit != nil {
		pkt = append(pkt, transit.Value...)
	}
	return pkt, nil
}
