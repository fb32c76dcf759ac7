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

// as4.go
package packet

import (
	"net"

	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

// ReconcileAS4Attrs folds the RFC 6793 AS4_PATH and AS4_AGGREGATOR
// attributes into the record's AS_PATH and AGGREGATOR. The AS4 attributes
// arrive as temporaries with their presence bits set; the bits are cleared
// here once the information has been merged or discarded.
func ReconcileAS4Attrs(rec *AttrRecord, peerAttrs BGPPeerAttrs, as4Path *BGPPathAttrAS4Path,
	as4AggSeen bool, as4AggAS uint32, as4AggAddr net.IP) {
	defer func() {
		rec.ClearAttr(BGPPathAttrTypeAS4Path)
		rec.ClearAttr(BGPPathAttrTypeAS4Aggregator)
	}()

	if peerAttrs.ASSize == 4 {
		// An AS4 capable peer has no business sending the AS4 shadow
		// attributes, they already fit everything in AS_PATH.
		if as4Path != nil || as4AggSeen {
			utils.Logger.Warningf("AS4 capable peer AS%d sent AS4_PATH or AS4_AGGREGATOR, discarding them",
				peerAttrs.RemoteAS)
		}
		return
	}

	ignoreAS4Path := false
	if as4AggSeen {
		if rec.HasAttr(BGPPathAttrTypeAggregator) {
			if rec.GetExtra().AggregatorAS != BGPASTrans {
				// The aggregating speaker was a 2-byte speaker after
				// all, so the AS4 shadow attributes are stale.
				utils.Logger.Warningf("AGGREGATOR AS%d is not AS_TRANS, ignoring AS4_AGGREGATOR and AS4_PATH",
					rec.GetExtra().AggregatorAS)
				ignoreAS4Path = true
			} else {
				extra := rec.GetExtra()
				extra.AggregatorAS = as4AggAS
				extra.AggregatorAddr = cloneIP(as4AggAddr)
			}
		} else {
			utils.Logger.Warningf("AS4_AGGREGATOR without AGGREGATOR, synthesizing AGGREGATOR from it")
			extra := rec.GetExtra()
			extra.AggregatorAS = as4AggAS
			extra.AggregatorAddr = nil
			rec.SetAttr(BGPPathAttrTypeAggregator)
		}
	}

	if as4Path != nil && !ignoreAS4Path && rec.ASPath != nil {
		rec.ASPath = rec.ASPath.ReconcileWithAS4Path(as4Path)
	}
}
