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

// parse.go
package packet

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

// MPNLRIInfo carries the multiprotocol NLRI attributes out of the path
// attribute section so the caller can feed the per-family RIBs.
type MPNLRIInfo struct {
	Reach   *BGPPathAttrMPReachNLRI
	Unreach *BGPPathAttrMPUnreachNLRI
}

// ParsePathAttrs decodes, validates and interns the path attribute section
// of an UPDATE. pkt is the raw attribute bytes from the message, without
// the two byte section length. On BGPPathAttrParseError the returned
// message error is ready to be sent as a NOTIFICATION; on
// BGPPathAttrParseWithdraw the record is valid but the UPDATE's NLRI must
// be treated as withdrawn. tables may be nil, in which case the record is
// returned without interning.
func ParsePathAttrs(pkt []byte, peerAttrs BGPPeerAttrs, tables *AttrTables) (
	*AttrRecord, *MPNLRIInfo, PathAttrParseResult, *BGPMessageError) {
	bgpAttrSectionsParsed.Inc()

	rec := NewAttrRecord()
	mpInfo := &MPNLRIInfo{}

	var seen [32]byte
	var as4Path *BGPPathAttrAS4Path
	var as4AggSeen bool
	var as4AggAS uint32
	var as4AggAddr net.IP
	var transitBuf []byte
	withdraw := false

	total := uint32(len(pkt))
	ptr := uint32(0)
	for ptr < total {
		if total-ptr < 3 {
			msgErr := &BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[ptr:],
				"Path attribute header is truncated"}
			return nil, nil, BGPPathAttrParseError, msgErr
		}

		flags := BGPPathAttrFlag(pkt[ptr])
		typeCode := BGPPathAttrType(pkt[ptr+1])

		var headerLen, length uint32
		if flags&BGPPathAttrFlagExtendedLen != 0 {
			if total-ptr < 4 {
				msgErr := &BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[ptr:],
					"Path attribute header is truncated"}
				return nil, nil, BGPPathAttrParseError, msgErr
			}
			headerLen = 4
			length = uint32(binary.BigEndian.Uint16(pkt[ptr+2 : ptr+4]))
		} else {
			headerLen = 3
			length = uint32(pkt[ptr+2])
		}

		span := headerLen + length
		if ptr+span > total {
			msgErr := &BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[ptr:],
				fmt.Sprintf("Attribute type %d length %d overruns the attribute section", typeCode, length)}
			return nil, nil, BGPPathAttrParseError, msgErr
		}
		attrPkt := pkt[ptr : ptr+span]

		seenIdx, seenBit := uint(typeCode)>>3, uint8(1)<<(uint(typeCode)&7)
		if seen[seenIdx]&seenBit != 0 {
			msgErr := &BGPMessageError{BGPUpdateMsgError, BGPMalformedAttrList, nil,
				fmt.Sprintf("Attribute type %d appears twice", typeCode)}
			return nil, nil, BGPPathAttrParseError, msgErr
		}
		seen[seenIdx] |= seenBit

		if !BGPKnownPathAttr(typeCode) {
			result, msgErr := applyUnknownAttr(rec, peerAttrs, typeCode, flags, attrPkt, &transitBuf)
			if result == BGPPathAttrParseError {
				return nil, nil, result, msgErr
			}
			if result == BGPPathAttrParseWithdraw {
				withdraw = true
			}
			ptr += span
			continue
		}

		attr := BGPGetPathAttr(typeCode)
		if err := attr.Decode(attrPkt, peerAttrs); err != nil {
			msgErr := err.(BGPMessageError)
			result, policyErr := MalformedAttrPolicy(rec, peerAttrs, typeCode, flags,
				msgErr.SubTypeCode, msgErr.Data, msgErr.Message)
			if result == BGPPathAttrParseError {
				return nil, nil, result, policyErr
			}
			if result == BGPPathAttrParseWithdraw {
				withdraw = true
			}
			ptr += span
			continue
		}

		if attr.TotalLen() != span {
			msgErr := &BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, attrPkt,
				fmt.Sprintf("Attribute type %d decode consumed %d bytes of %d", typeCode, attr.TotalLen(), span)}
			return nil, nil, BGPPathAttrParseError, msgErr
		}

		switch a := attr.(type) {
		case *BGPPathAttrOrigin:
			rec.Origin = a.Value
			rec.SetAttr(typeCode)

		case *BGPPathAttrASPath:
			rec.ASPath = widenASPath(a)
			rec.SetAttr(typeCode)

		case *BGPPathAttrNextHop:
			rec.NextHop = cloneIP(a.Value)
			rec.SetAttr(typeCode)

		case *BGPPathAttrMultiExitDisc:
			rec.MED = a.Value
			rec.SetAttr(typeCode)

		case *BGPPathAttrLocalPref:
			if peerAttrs.IsEBGP() {
				utils.Logger.Debug("Ignoring LOCAL_PREF from EBGP peer")
			} else {
				rec.LocalPref = a.Value
				rec.SetAttr(typeCode)
			}

		case *BGPPathAttrAtomicAggregate:
			rec.SetAttr(typeCode)

		case *BGPPathAttrAggregator:
			extra := rec.GetExtra()
			extra.AggregatorAS = a.AS
			extra.AggregatorAddr = cloneIP(a.IP)
			rec.SetAttr(typeCode)

		case *BGPPathAttrAS4Path:
			as4Path = a
			rec.SetAttr(typeCode)

		case *BGPPathAttrAS4Aggregator:
			as4AggSeen = true
			as4AggAS = a.AS
			as4AggAddr = cloneIP(a.IP)
			rec.SetAttr(typeCode)

		case *BGPPathAttrCommunities:
			rec.Community = NewCommunitySet(a.Value)
			rec.SetAttr(typeCode)

		case *BGPPathAttrExtCommunities:
			rec.GetExtra().ExtCommunity = NewExtCommunitySet(a.Value)
			rec.SetAttr(typeCode)

		case *BGPPathAttrLargeCommunities:
			rec.GetExtra().LargeCommunity = NewLargeCommunitySet(a.Value)
			rec.SetAttr(typeCode)

		case *BGPPathAttrOriginatorId:
			rec.GetExtra().OriginatorId = cloneIP(a.Value)
			rec.SetAttr(typeCode)

		case *BGPPathAttrClusterList:
			rec.GetExtra().Cluster = NewClusterList(a.Value)
			rec.SetAttr(typeCode)

		case *BGPPathAttrMPReachNLRI:
			mpInfo.Reach = a
			applyMPNextHop(rec.GetExtra(), a.NextHop)
			rec.SetAttr(typeCode)

		case *BGPPathAttrMPUnreachNLRI:
			mpInfo.Unreach = a
			rec.SetAttr(typeCode)

		case *BGPPathAttrEncap:
			extra := rec.GetExtra()
			extra.EncapTunnelType = a.TunnelType
			extra.EncapSubTLVs = a.SubTLVs
			rec.SetAttr(typeCode)
		}

		ptr += span
	}

	if transitBuf != nil {
		rec.GetExtra().Transit = NewTransit(transitBuf)
	}

	if msgErr := checkMandatoryAttrs(rec, mpInfo, peerAttrs); msgErr != nil {
		return nil, nil, BGPPathAttrParseError, msgErr
	}

	ReconcileAS4Attrs(rec, peerAttrs, as4Path, as4AggSeen, as4AggAS, as4AggAddr)

	if rec.ASPath != nil && rec.ASPath.HasConfedSegments() && !peerAttrs.IsConfedMember() {
		utils.Logger.Warningf("AS_PATH with confederation segments from non-confed peer AS%d, treating as withdraw",
			peerAttrs.RemoteAS)
		withdraw = true
	}

	if peerAttrs.EnforceFirstAS && peerAttrs.IsEBGP() && rec.ASPath != nil &&
		rec.ASPath.FirstAS() != peerAttrs.RemoteAS {
		msgErr := &BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, nil,
			fmt.Sprintf("AS_PATH does not start with peer AS%d", peerAttrs.RemoteAS)}
		return nil, nil, BGPPathAttrParseError, msgErr
	}

	if tables != nil {
		rec = tables.InternAttr(rec)
		bgpAttrRecordsInterned.Inc()
	}

	if withdraw {
		return rec, mpInfo, BGPPathAttrParseWithdraw, nil
	}
	return rec, mpInfo, BGPPathAttrParseProceed, nil
}

// widenASPath rebuilds the path with 4-byte segments so records hold one
// canonical form regardless of the peer's AS size.
func widenASPath(asPath *BGPPathAttrASPath) *BGPPathAttrASPath {
	if asPath.ASSize == 4 {
		return asPath
	}
	x := NewBGPPathAttrASPath()
	for _, seg := range asPath.Value {
		x.AppendASPathSegment(asSegmentToAS4(seg))
	}
	return x
}

func applyMPNextHop(extra *AttrExtra, nextHop MPNextHop) {
	switch nh := nextHop.(type) {
	case *MPNextHopIP:
		extra.MPNextHopGlobal = cloneIP(nh.Value)
		extra.MPNextHopGlobalIn = cloneIP(nh.Value)
		extra.MPNextHopLen = uint8(net.IPv4len)
	case *MPNextHopIP6:
		extra.MPNextHopGlobal = cloneIP(nh.Global)
		extra.MPNextHopGlobalIn = cloneIP(nh.Global)
		extra.MPNextHopLocal = cloneIP(nh.LinkLocal)
		extra.MPNextHopLen = nh.SemanticLen
	}
}

// applyUnknownAttr handles attribute type codes the engine has no decoder
// for. Unrecognized well-known attributes reset the session, optional
// non-transitive ones are quietly dropped, and optional transitive ones are
// stashed verbatim with the Partial bit set for re-emission.
func applyUnknownAttr(rec *AttrRecord, peerAttrs BGPPeerAttrs, typeCode BGPPathAttrType,
	flags BGPPathAttrFlag, attrPkt []byte, transitBuf *[]byte) (PathAttrParseResult, *BGPMessageError) {
	if flags&BGPPathAttrFlagOptional == 0 {
		return MalformedAttrPolicy(rec, peerAttrs, typeCode, flags, BGPUnrecognizedWellKnownAttr,
			attrPkt, fmt.Sprintf("Unrecognized well-known attribute type %d", typeCode))
	}

	if flags&BGPPathAttrFlagTransitive == 0 {
		utils.Logger.Debugf("Dropping unknown optional non-transitive attribute type %d", typeCode)
		return BGPPathAttrParseProceed, nil
	}

	buf := make([]byte, len(attrPkt))
	copy(buf, attrPkt)
	buf[0] |= uint8(BGPPathAttrFlagPartial)
	*transitBuf = append(*transitBuf, buf...)
	return BGPPathAttrParseProceed, nil
}

// checkMandatoryAttrs enforces the RFC 4271 mandatory attribute set. An
// empty attribute section or one carrying only MP_UNREACH_NLRI is a pure
// withdraw and is exempt.
func checkMandatoryAttrs(rec *AttrRecord, mpInfo *MPNLRIInfo, peerAttrs BGPPeerAttrs) *BGPMessageError {
	if rec.Flag == 0 && (rec.Extra == nil || rec.Extra.Transit == nil) {
		return nil
	}
	if rec.Flag == AttrFlagBit(BGPPathAttrTypeMPUnreachNLRI) {
		return nil
	}

	missing := func(typeCode BGPPathAttrType) *BGPMessageError {
		return &BGPMessageError{BGPUpdateMsgError, BGPMissingWellKnownAttr, []byte{uint8(typeCode)},
			fmt.Sprintf("Missing well-known attribute %v", typeCode)}
	}

	if !rec.HasAttr(BGPPathAttrTypeOrigin) {
		return missing(BGPPathAttrTypeOrigin)
	}
	if !rec.HasAttr(BGPPathAttrTypeASPath) {
		return missing(BGPPathAttrTypeASPath)
	}
	if !rec.HasAttr(BGPPathAttrTypeNextHop) && mpInfo.Reach == nil {
		return missing(BGPPathAttrTypeNextHop)
	}
	if peerAttrs.PeerType == PeerTypeIBGP && !rec.HasAttr(BGPPathAttrTypeLocalPref) {
		return missing(BGPPathAttrTypeLocalPref)
	}
	return nil
}
