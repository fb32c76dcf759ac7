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

// policy.go
package packet

import (
	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

// PathAttrParseResult is the disposition of an UPDATE's path attribute
// section after error handling.
type PathAttrParseResult int

const (
	BGPPathAttrParseProceed  PathAttrParseResult = 0
	BGPPathAttrParseError    PathAttrParseResult = -1
	BGPPathAttrParseWithdraw PathAttrParseResult = -2
)

func (r PathAttrParseResult) String() string {
	switch r {
	case BGPPathAttrParseProceed:
		return "proceed"
	case BGPPathAttrParseError:
		return "error"
	case BGPPathAttrParseWithdraw:
		return "withdraw"
	}
	return "unknown"
}

// MalformedAttrPolicy decides what a malformed attribute does to the
// UPDATE, per RFC 7606 style relaxed handling. Session reset relaxations
// apply to EBGP peers only. Attributes whose loss does not change route
// selection are dropped and parsing proceeds; malformed core attributes
// still reset the session; an unrecognized or damaged optional transitive
// attribute that arrived partial demotes the UPDATE to a withdraw.
func MalformedAttrPolicy(rec *AttrRecord, peerAttrs BGPPeerAttrs, attrType BGPPathAttrType,
	flags BGPPathAttrFlag, subcode uint8, data []byte, msg string) (PathAttrParseResult, *BGPMessageError) {
	if rec != nil {
		rec.ClearAttr(attrType)
	}

	if !peerAttrs.IsEBGP() {
		bgpAttrsMalformed.WithLabelValues(BGPPathAttrParseError.String()).Inc()
		return BGPPathAttrParseError, &BGPMessageError{BGPUpdateMsgError, subcode, data, msg}
	}

	switch attrType {
	case BGPPathAttrTypeAggregator, BGPPathAttrTypeAS4Aggregator, BGPPathAttrTypeAtomicAggregate:
		utils.Logger.Warningf("Dropping malformed %v attribute from EBGP peer, %s", attrType, msg)
		bgpAttrsMalformed.WithLabelValues(BGPPathAttrParseProceed.String()).Inc()
		return BGPPathAttrParseProceed, nil

	case BGPPathAttrTypeOrigin, BGPPathAttrTypeASPath, BGPPathAttrTypeNextHop,
		BGPPathAttrTypeMultiExitDisc, BGPPathAttrTypeLocalPref, BGPPathAttrTypeCommunities,
		BGPPathAttrTypeOriginatorId, BGPPathAttrTypeClusterList, BGPPathAttrTypeMPReachNLRI,
		BGPPathAttrTypeMPUnreachNLRI, BGPPathAttrTypeExtCommunities:
		bgpAttrsMalformed.WithLabelValues(BGPPathAttrParseError.String()).Inc()
		return BGPPathAttrParseError, &BGPMessageError{BGPUpdateMsgError, subcode, data, msg}
	}

	if flags&BGPPathAttrFlagOptional != 0 && flags&BGPPathAttrFlagTransitive != 0 &&
		flags&BGPPathAttrFlagPartial != 0 {
		utils.Logger.Warningf("Treating UPDATE with malformed partial %v attribute as a withdraw, %s", attrType, msg)
		bgpAttrsMalformed.WithLabelValues(BGPPathAttrParseWithdraw.String()).Inc()
		return BGPPathAttrParseWithdraw, nil
	}

	bgpAttrsMalformed.WithLabelValues(BGPPathAttrParseError.String()).Inc()
	return BGPPathAttrParseError, &BGPMessageError{BGPUpdateMsgError, subcode, data, msg}
}
