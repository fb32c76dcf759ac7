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

// mpbgp.go
package packet

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

const BGPRouteDistinguisherLen = 8

var BGPAFIToStructMap = map[AFI]MPNextHop{
	AfiIP:  &MPNextHopIP{},
	AfiIP6: &MPNextHopIP6{},
}

// MPNextHop is the next hop field of MP_REACH_NLRI. Length is the value of
// the wire length octet, which for VPN SAFIs includes the 8-byte route
// distinguishers the decoder strips.
type MPNextHop interface {
	Clone() MPNextHop
	Encode([]byte) error
	Decode(pkt []byte) error
	Len() uint8
	New() MPNextHop
	String() string
	GetNextHop() net.IP
}

type MPNextHopIP struct {
	Length uint8
	Value  net.IP
}

func (i *MPNextHopIP) Clone() MPNextHop {
	x := *i
	x.Value = make(net.IP, len(i.Value), cap(i.Value))
	copy(x.Value, i.Value)
	return &x
}

func (i *MPNextHopIP) Encode(pkt []byte) error {
	if i.Length != 4 && i.Length != 4+BGPRouteDistinguisherLen {
		return fmt.Errorf("Bad IPv4 MP next hop length %d", i.Length)
	}

	pkt[0] = i.Length
	idx := 1
	if i.Length == 4+BGPRouteDistinguisherLen {
		idx += BGPRouteDistinguisherLen
	}
	copy(pkt[idx:], i.Value.To4())
	return nil
}

func (i *MPNextHopIP) Decode(pkt []byte) error {
	if len(pkt) < 1 {
		return fmt.Errorf("No data for MP next hop length")
	}

	i.Length = pkt[0]
	idx := 1
	switch i.Length {
	case 4:
	case 4 + BGPRouteDistinguisherLen:
		idx += BGPRouteDistinguisherLen
	default:
		return fmt.Errorf("Bad IPv4 MP next hop length %d", i.Length)
	}

	if len(pkt) < idx+net.IPv4len {
		return fmt.Errorf("MP next hop is truncated")
	}
	i.Value = make(net.IP, net.IPv4len)
	copy(i.Value, pkt[idx:idx+net.IPv4len])
	return nil
}

func (i *MPNextHopIP) Len() uint8 {
	return i.Length + 1
}

func (i *MPNextHopIP) New() MPNextHop {
	return &MPNextHopIP{}
}

func (i *MPNextHopIP) String() string {
	return fmt.Sprintf("{NEXTHOP %v}", i.Value)
}

func (i *MPNextHopIP) GetNextHop() net.IP {
	return i.Value
}

func (i *MPNextHopIP) SetNextHop(ip net.IP) error {
	v4 := ip.To4()
	if v4 == nil {
		return fmt.Errorf("Next hop %s is not an IPv4 address", ip)
	}

	i.Value = v4
	i.Length = uint8(net.IPv4len)
	return nil
}

// WrapRouteDistinguisher widens the wire form to the VPN variant with a
// zero route distinguisher in front of the address.
func (i *MPNextHopIP) WrapRouteDistinguisher() {
	if i.Length == 4 {
		i.Length += BGPRouteDistinguisherLen
	}
}

func NewMPNextHopIP() *MPNextHopIP {
	return &MPNextHopIP{
		Length: 0,
		Value:  net.IP{},
	}
}

// MPNextHopIP6 holds the global and optional link-local IPv6 next hops.
// SemanticLen is the length after route distinguishers are stripped and
// after a bogus link-local address is downgraded away, so it is always 16
// or 32.
type MPNextHopIP6 struct {
	Length      uint8
	SemanticLen uint8
	Global      net.IP
	LinkLocal   net.IP
}

func (i *MPNextHopIP6) Clone() MPNextHop {
	x := *i
	x.Global = make(net.IP, len(i.Global), cap(i.Global))
	copy(x.Global, i.Global)
	if i.LinkLocal != nil {
		x.LinkLocal = make(net.IP, len(i.LinkLocal), cap(i.LinkLocal))
		copy(x.LinkLocal, i.LinkLocal)
	}
	return &x
}

func (i *MPNextHopIP6) Encode(pkt []byte) error {
	pkt[0] = i.Length
	idx := 1

	switch i.Length {
	case 16:
	case 16 + BGPRouteDistinguisherLen:
		idx += BGPRouteDistinguisherLen
	case 32, 32 + 2*BGPRouteDistinguisherLen:
		if i.LinkLocal == nil {
			return fmt.Errorf("IPv6 MP next hop length %d without a link-local address", i.Length)
		}
		if i.Length == 32+2*BGPRouteDistinguisherLen {
			idx += BGPRouteDistinguisherLen
		}
	default:
		return fmt.Errorf("Bad IPv6 MP next hop length %d", i.Length)
	}

	copy(pkt[idx:], i.Global.To16())
	idx += net.IPv6len
	if i.LinkLocal != nil {
		if i.Length == 32+2*BGPRouteDistinguisherLen {
			idx += BGPRouteDistinguisherLen
		}
		copy(pkt[idx:], i.LinkLocal.To16())
	}
	return nil
}

func (i *MPNextHopIP6) Decode(pkt []byte) error {
	if len(pkt) < 1 {
		return fmt.Errorf("No data for MP next hop length")
	}

	i.Length = pkt[0]
	if len(pkt) < int(i.Length)+1 {
		return fmt.Errorf("MP next hop is truncated")
	}

	idx := 1
	hasLinkLocal := false
	switch i.Length {
	case 16:
	case 16 + BGPRouteDistinguisherLen:
		idx += BGPRouteDistinguisherLen
	case 32:
		hasLinkLocal = true
	case 32 + 2*BGPRouteDistinguisherLen:
		hasLinkLocal = true
		idx += BGPRouteDistinguisherLen
	default:
		return fmt.Errorf("Bad IPv6 MP next hop length %d", i.Length)
	}

	i.Global = make(net.IP, net.IPv6len)
	copy(i.Global, pkt[idx:idx+net.IPv6len])
	idx += net.IPv6len
	i.SemanticLen = 16

	if hasLinkLocal {
		if i.Length == 32+2*BGPRouteDistinguisherLen {
			idx += BGPRouteDistinguisherLen
		}
		linkLocal := make(net.IP, net.IPv6len)
		copy(linkLocal, pkt[idx:idx+net.IPv6len])
		if linkLocal.IsLinkLocalUnicast() {
			i.LinkLocal = linkLocal
			i.SemanticLen = 32
		} else {
			// RFC 2545: the second address must be link-local. Fall
			// back to the single address form instead of rejecting.
			utils.Logger.Debugf("Second IPv6 MP next hop %s is not link-local, ignoring it", linkLocal)
			i.LinkLocal = nil
		}
	}
	return nil
}

func (i *MPNextHopIP6) Len() uint8 {
	return i.Length + 1
}

func (i *MPNextHopIP6) New() MPNextHop {
	return &MPNextHopIP6{}
}

func (i *MPNextHopIP6) String() string {
	if i.LinkLocal != nil {
		return fmt.Sprintf("{NEXTHOP %v %v}", i.Global, i.LinkLocal)
	}
	return fmt.Sprintf("{NEXTHOP %v}", i.Global)
}

func (i *MPNextHopIP6) GetNextHop() net.IP {
	return i.Global
}

func (i *MPNextHopIP6) SetGlobalNextHop(ip net.IP) error {
	if ip.To16() == nil || ip.To4() != nil {
		return fmt.Errorf("Next hop %s is not an IPv6 address", ip)
	}

	i.Global = ip.To16()
	i.syncLength()
	return nil
}

func (i *MPNextHopIP6) SetLinkLocalNextHop(ip net.IP) error {
	if !ip.IsLinkLocalUnicast() {
		return fmt.Errorf("Next hop %s is not a link-local IPv6 address", ip)
	}

	i.LinkLocal = ip.To16()
	i.syncLength()
	return nil
}

func (i *MPNextHopIP6) syncLength() {
	if i.LinkLocal != nil {
		i.Length = 32
		i.SemanticLen = 32
	} else {
		i.Length = 16
		i.SemanticLen = 16
	}
}

// WrapRouteDistinguisher widens the wire form to the VPN variant with a
// zero route distinguisher in front of each address.
func (i *MPNextHopIP6) WrapRouteDistinguisher() {
	switch i.Length {
	case 16:
		i.Length += BGPRouteDistinguisherLen
	case 32:
		i.Length += 2 * BGPRouteDistinguisherLen
	}
}

func NewMPNextHopIP6() *MPNextHopIP6 {
	return &MPNextHopIP6{
		Global: net.IP{},
	}
}

type MPNextHopUnknown struct {
	Length uint8
	Value  []byte
}

func (u *MPNextHopUnknown) Clone() MPNextHop {
	x := *u
	x.Value = make([]byte, len(u.Value), cap(u.Value))
	copy(x.Value, u.Value)
	return &x
}

func (u *MPNextHopUnknown) Encode(pkt []byte) error {
	pkt[0] = u.Length
	copy(pkt[1:], u.Value)
	return nil
}

func (u *MPNextHopUnknown) Decode(pkt []byte) error {
	if len(pkt) < 1 {
		return fmt.Errorf("No data for MP next hop length")
	}
	u.Length = pkt[0]
	if len(pkt) < int(u.Length)+1 {
		return fmt.Errorf("MP next hop is truncated")
	}
	u.Value = make([]byte, u.Length)
	copy(u.Value, pkt[1:])
	return nil
}

func (u *MPNextHopUnknown) Len() uint8 {
	return u.Length + 1
}

func (u *MPNextHopUnknown) New() MPNextHop {
	return &MPNextHopUnknown{}
}

func (u *MPNextHopUnknown) String() string {
	return fmt.Sprintf("{NEXTHOP %v}", u.Value)
}

func (u *MPNextHopUnknown) GetNextHop() net.IP {
	return net.IP(u.Value)
}

func NewMPNextHopUnknown() *MPNextHopUnknown {
	return &MPNextHopUnknown{
		Length: 0,
		Value:  []byte{},
	}
}

func BGPGetMPNextHop(afi AFI) MPNextHop {
	if nextHop, ok := BGPAFIToStructMap[afi]; ok {
		return nextHop.New()
	}
	return &MPNextHopUnknown{}
}

// BGPPathAttrMPReachNLRI is MP_REACH_NLRI. The NLRI is parsed into
// prefixes for the unicast and multicast SAFIs and kept raw in NLRIData
// for every other SAFI, where the layout is not the engine's business.
type BGPPathAttrMPReachNLRI struct {
	BGPPathAttrBase
	AFI      AFI
	SAFI     SAFI
	NextHop  MPNextHop
	Reserved byte
	NLRI     []NLRI
	NLRIData []byte
}

func (r *BGPPathAttrMPReachNLRI) Clone() BGPPathAttr {
	x := *r
	x.BGPPathAttrBase = r.BGPPathAttrBase.Clone()
	x.NextHop = r.NextHop.Clone()
	x.NLRI = make([]NLRI, len(r.NLRI))
	for i := range r.NLRI {
		x.NLRI[i] = r.NLRI[i].Clone()
	}
	x.NLRIData = make([]byte, len(r.NLRIData))
	copy(x.NLRIData, r.NLRIData)
	return &x
}

func (r *BGPPathAttrMPReachNLRI) Encode() ([]byte, error) {
	pkt, err := r.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}
	idx := int(r.BGPPathAttrBase.BGPPathAttrLen)

	binary.BigEndian.PutUint16(pkt[idx:idx+2], uint16(r.AFI))
	idx += 2
	pkt[idx] = uint8(r.SAFI)
	idx++

	err = r.NextHop.Encode(pkt[idx:])
	if err != nil {
		return pkt, err
	}
	idx += int(r.NextHop.Len())

	pkt[idx] = 0
	idx++

	if r.NLRIData != nil {
		copy(pkt[idx:], r.NLRIData)
		return pkt, nil
	}
	for i := 0; i < len(r.NLRI); i++ {
		bytes, err := r.NLRI[i].Encode(r.AFI)
		if err != nil {
			return pkt, err
		}
		copy(pkt[idx:], bytes)
		idx += len(bytes)
	}
	return pkt, nil
}

func (r *BGPPathAttrMPReachNLRI) Decode(pkt []byte, data interface{}) error {
	err := r.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if r.Length < 5 {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[:r.TotalLen()],
			fmt.Sprintf("MP_REACH_NLRI too short, length %d", r.Length)}
	}

	idx := uint32(r.BGPPathAttrBase.BGPPathAttrLen)
	r.AFI = AFI(binary.BigEndian.Uint16(pkt[idx : idx+2]))
	r.SAFI = SAFI(pkt[idx+2])
	idx += 3

	nextHopLen := uint32(pkt[idx])
	if idx+1+nextHopLen+1 > r.TotalLen() {
		return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:r.TotalLen()],
			fmt.Sprintf("MP_REACH_NLRI next hop length %d overruns the attribute", nextHopLen)}
	}

	nextHop := BGPGetMPNextHop(r.AFI)
	if err := nextHop.Decode(pkt[idx:r.TotalLen()]); err != nil {
		return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:r.TotalLen()], err.Error()}
	}
	r.NextHop = nextHop
	idx += uint32(nextHop.Len())

	r.Reserved = pkt[idx]
	if r.Reserved != 0 {
		utils.Logger.Warningf("MP_REACH_NLRI reserved byte is 0x%x, expected 0", r.Reserved)
	}
	idx++

	length := r.TotalLen() - idx
	if r.SAFI == SafiUnicast || r.SAFI == SafiMulticast {
		r.NLRI = make([]NLRI, 0)
		_, err = decodeNLRI(pkt[idx:r.TotalLen()], &r.NLRI, length, r.AFI)
		return err
	}
	r.NLRIData = make([]byte, length)
	copy(r.NLRIData, pkt[idx:r.TotalLen()])
	return nil
}

func (r *BGPPathAttrMPReachNLRI) New() BGPPathAttr {
	return &BGPPathAttrMPReachNLRI{}
}

func (r *BGPPathAttrMPReachNLRI) String() string {
	return fmt.Sprintf("{MP_REACH_NLRI %d/%d %v %v}", r.AFI, r.SAFI, r.NextHop, r.NLRI)
}

func (r *BGPPathAttrMPReachNLRI) SetNextHop(nextHop MPNextHop) {
	r.NextHop = nextHop
	r.BGPPathAttrBase.Length += uint16(r.NextHop.Len())
}

func (r *BGPPathAttrMPReachNLRI) AddNLRI(nlri NLRI) {
	r.NLRI = append(r.NLRI, nlri)
	r.BGPPathAttrBase.Length += uint16(nlri.Len())
}

func (r *BGPPathAttrMPReachNLRI) SetNLRIList(nlriList []NLRI) {
	r.NLRI = nlriList
	for _, nlri := range nlriList {
		r.BGPPathAttrBase.Length += uint16(nlri.Len())
	}
}

func NewBGPPathAttrMPReachNLRI(afi AFI, safi SAFI) *BGPPathAttrMPReachNLRI {
	return &BGPPathAttrMPReachNLRI{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional | BGPPathAttrFlagExtendedLen,
			Code:           BGPPathAttrTypeMPReachNLRI,
			Length:         4,
			BGPPathAttrLen: 4,
		},
		AFI:      afi,
		SAFI:     safi,
		Reserved: 0,
		NLRI:     make([]NLRI, 0),
	}
}

type BGPPathAttrMPUnreachNLRI struct {
	BGPPathAttrBase
	AFI      AFI
	SAFI     SAFI
	NLRI     []NLRI
	NLRIData []byte
}

func (u *BGPPathAttrMPUnreachNLRI) Clone() BGPPathAttr {
	x := *u
	x.BGPPathAttrBase = u.BGPPathAttrBase.Clone()
	x.NLRI = make([]NLRI, len(u.NLRI))
	for i := range u.NLRI {
		x.NLRI[i] = u.NLRI[i].Clone()
	}
	x.NLRIData = make([]byte, len(u.NLRIData))
	copy(x.NLRIData, u.NLRIData)
	return &x
}

func (u *BGPPathAttrMPUnreachNLRI) Encode() ([]byte, error) {
	pkt, err := u.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}
	idx := int(u.BGPPathAttrBase.BGPPathAttrLen)

	binary.BigEndian.PutUint16(pkt[idx:idx+2], uint16(u.AFI))
	idx += 2
	pkt[idx] = uint8(u.SAFI)
	idx++

	if u.NLRIData != nil {
		copy(pkt[idx:], u.NLRIData)
		return pkt, nil
	}
	for i := 0; i < len(u.NLRI); i++ {
		bytes, err := u.NLRI[i].Encode(u.AFI)
		if err != nil {
			return pkt, err
		}
		copy(pkt[idx:], bytes)
		idx += len(bytes)
	}
	return pkt, nil
}

func (u *BGPPathAttrMPUnreachNLRI) Decode(pkt []byte, data interface{}) error {
	err := u.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if u.Length < 3 {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[:u.TotalLen()],
			fmt.Sprintf("MP_UNREACH_NLRI too short, length %d", u.Length)}
	}

	idx := uint32(u.BGPPathAttrBase.BGPPathAttrLen)
	u.AFI = AFI(binary.BigEndian.Uint16(pkt[idx : idx+2]))
	u.SAFI = SAFI(pkt[idx+2])
	idx += 3

	length := u.TotalLen() - idx
	if u.SAFI == SafiUnicast || u.SAFI == SafiMulticast {
		u.NLRI = make([]NLRI, 0)
		_, err = decodeNLRI(pkt[idx:u.TotalLen()], &u.NLRI, length, u.AFI)
		return err
	}
	u.NLRIData = make([]byte, length)
	copy(u.NLRIData, pkt[idx:u.TotalLen()])
	return nil
}

func (u *BGPPathAttrMPUnreachNLRI) New() BGPPathAttr {
	return &BGPPathAttrMPUnreachNLRI{}
}

func (u *BGPPathAttrMPUnreachNLRI) String() string {
	return fmt.Sprintf("{MP_UNREACH_NLRI %d/%d %v}", u.AFI, u.SAFI, u.NLRI)
}

func (u *BGPPathAttrMPUnreachNLRI) AddNLRI(nlri NLRI) {
	u.NLRI = append(u.NLRI, nlri)
	u.BGPPathAttrBase.Length += uint16(nlri.Len())
}

func (u *BGPPathAttrMPUnreachNLRI) AddNLRIList(nlriList []NLRI) {
	for _, nlri := range nlriList {
		u.NLRI = append(u.NLRI, nlri)
		u.BGPPathAttrBase.Length += uint16(nlri.Len())
	}
}

func NewBGPPathAttrMPUnreachNLRI(afi AFI, safi SAFI) *BGPPathAttrMPUnreachNLRI {
	return &BGPPathAttrMPUnreachNLRI{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional | BGPPathAttrFlagExtendedLen,
			Code:           BGPPathAttrTypeMPUnreachNLRI,
			Length:         3,
			BGPPathAttrLen: 4,
		},
		AFI:  afi,
		SAFI: safi,
		NLRI: make([]NLRI, 0),
	}
}
