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

// metrics.go
package packet

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	bgpAttrSectionsParsed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bgp_attr_sections_parsed_total",
		Help: "Path attribute sections handed to the parser.",
	})

	bgpAttrsMalformed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgp_attr_malformed_total",
		Help: "Malformed path attributes by disposition.",
	}, []string{"action"})

	bgpAttrRecordsInterned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bgp_attr_records_interned_total",
		Help: "Attribute records handed to the intern tables.",
	})
)

func init() {
	prometheus.MustRegister(bgpAttrSectionsParsed, bgpAttrsMalformed, bgpAttrRecordsInterned)
}
