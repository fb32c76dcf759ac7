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

// peer.go
package packet

import (
	"net"
)

type BGPPeerType uint8

const (
	PeerTypeEBGP BGPPeerType = iota
	PeerTypeIBGP
	PeerTypeConfedMember
)

var BGPPeerTypeToStrMap = map[BGPPeerType]string{
	PeerTypeEBGP:         "external",
	PeerTypeIBGP:         "internal",
	PeerTypeConfedMember: "confed",
}

// BGPPeerAttrs carries the per session facts the attribute engine needs:
// the negotiated AS number size, the session class and the local policy
// knobs that shape inbound validation and outbound serialization. The FSM
// owns the session; only this view of it crosses into the codec.
type BGPPeerAttrs struct {
	ASSize              uint8
	PeerType            BGPPeerType
	LocalAS             uint32
	RemoteAS            uint32
	ChangeLocalAS       uint32
	ReplaceLocalAS      bool
	ASPathUnchanged     bool
	EnforceFirstAS      bool
	RouterId            net.IP
	ClusterId           uint32
	HasClusterId        bool
	AllowMartianNextHop bool
	SendCommunity       bool
	SendExtCommunity    bool
	SendLargeCommunity  bool
}

func (p BGPPeerAttrs) IsEBGP() bool {
	return p.PeerType == PeerTypeEBGP
}

func (p BGPPeerAttrs) IsConfedMember() bool {
	return p.PeerType == PeerTypeConfedMember
}

// IsInternal reports whether the session stays inside the local AS or
// confederation, the classes that keep LOCAL_PREF and skip AS prepending.
func (p BGPPeerAttrs) IsInternal() bool {
	return p.PeerType == PeerTypeIBGP || p.PeerType == PeerTypeConfedMember
}
