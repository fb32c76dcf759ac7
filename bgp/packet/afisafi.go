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

// afisafi.go
package packet

import (
	"net"
)

type AFI uint16
type SAFI uint8

const (
	AfiIP AFI = iota + 1
	AfiIP6
)

// SAFI values are the wire codepoints, so the labeled VPN SAFI is 128.
const (
	SafiUnicast   SAFI = 1
	SafiMulticast SAFI = 2
	SafiEncap     SAFI = 7
	SafiMplsVpn   SAFI = 128
)

var ProtocolFamilyMap = map[string]uint32{
	"ipv4-unicast": GetProtocolFamily(AfiIP, SafiUnicast),
	"ipv6-unicast": GetProtocolFamily(AfiIP6, SafiUnicast),
	"ipv4-vpn":     GetProtocolFamily(AfiIP, SafiMplsVpn),
	"ipv6-vpn":     GetProtocolFamily(AfiIP6, SafiMplsVpn),
}

var AFINextHopLenMap = map[AFI]int{
	AfiIP:  4,
	AfiIP6: 16,
}

var AFINextHop = map[AFI]net.IP{
	AfiIP:  net.IPv4zero,
	AfiIP6: net.IPv6zero,
}

func GetProtocolFamily(afi AFI, safi SAFI) uint32 {
	return uint32(afi<<8) | uint32(safi)
}

func GetAfiSafi(protocolFamily uint32) (AFI, SAFI) {
	return AFI(protocolFamily >> 8), SAFI(protocolFamily & 0xFF)
}

func GetAddressLengthForFamily(protoFamily uint32) int {
	afi, _ := GetAfiSafi(protoFamily)
	if addrLen, ok := AFINextHopLenMap[afi]; ok {
		return addrLen
	}
	return -1
}

func GetZeroNextHopForFamily(protoFamily uint32) net.IP {
	afi, _ := GetAfiSafi(protoFamily)
	if nh, ok := AFINextHop[afi]; ok {
		return nh
	}
	return nil
}

// IsVPNSafi reports whether NLRI and next hops for the SAFI carry route
// distinguishers on the wire.
func IsVPNSafi(safi SAFI) bool {
	return safi == SafiMplsVpn
}
