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

// community.go
package packet

import (
	"encoding/binary"
	"fmt"

	farm "github.com/dgryski/go-farm"

	"github.com/HikaruDY/quagga-sub000/bgp/intern"
)

// Well-known community values from RFC 1997.
const (
	BGPCommunityNoExport          uint32 = 0xFFFFFF01
	BGPCommunityNoAdvertise       uint32 = 0xFFFFFF02
	BGPCommunityNoExportSubconfed uint32 = 0xFFFFFF03
)

// ExtCommunityFlagNonTransitive is the bit in the first type octet of an
// extended community that marks it as non-transitive across AS boundaries.
const ExtCommunityFlagNonTransitive uint8 = 0x40

type ExtCommunity [8]byte

func (e ExtCommunity) IsTransitive() bool {
	return e[0]&ExtCommunityFlagNonTransitive == 0
}

type LargeCommunity struct {
	GlobalAdmin uint32
	LocalData1  uint32
	LocalData2  uint32
}

func (l LargeCommunity) String() string {
	return fmt.Sprintf("%d:%d:%d", l.GlobalAdmin, l.LocalData1, l.LocalData2)
}

type BGPPathAttrCommunities struct {
	BGPPathAttrBase
	Value []uint32
}

func (c *BGPPathAttrCommunities) Clone() BGPPathAttr {
	x := *c
	x.BGPPathAttrBase = c.BGPPathAttrBase.Clone()
	x.Value = make([]uint32, len(c.Value))
	copy(x.Value, c.Value)
	return &x
}

func (c *BGPPathAttrCommunities) Encode() ([]byte, error) {
	pkt, err := c.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	idx := c.BGPPathAttrLen
	for _, comm := range c.Value {
		binary.BigEndian.PutUint32(pkt[idx:], comm)
		idx += 4
	}
	return pkt, nil
}

func (c *BGPPathAttrCommunities) Decode(pkt []byte, data interface{}) error {
	err := c.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if c.Length%4 != 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:c.TotalLen()],
			fmt.Sprintf("COMMUNITY has bad length %d", c.Length)}
	}

	c.Value = make([]uint32, 0, c.Length/4)
	for idx := uint32(c.BGPPathAttrLen); idx < c.TotalLen(); idx += 4 {
		c.Value = append(c.Value, binary.BigEndian.Uint32(pkt[idx:]))
	}
	return nil
}

func (c *BGPPathAttrCommunities) New() BGPPathAttr {
	return &BGPPathAttrCommunities{}
}

func (c *BGPPathAttrCommunities) String() string {
	return fmt.Sprintf("{COMMUNITY %v}", c.Value)
}

func NewBGPPathAttrCommunities(comms []uint32) *BGPPathAttrCommunities {
	attr := &BGPPathAttrCommunities{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeCommunities,
			Length:         uint16(len(comms) * 4),
			BGPPathAttrLen: 3,
		},
		Value: comms,
	}
	if attr.Length > 255 {
		attr.Flags |= BGPPathAttrFlagExtendedLen
		attr.BGPPathAttrLen = 4
	}
	return attr
}

type BGPPathAttrExtCommunities struct {
	BGPPathAttrBase
	Value []ExtCommunity
}

func (e *BGPPathAttrExtCommunities) Clone() BGPPathAttr {
	x := *e
	x.BGPPathAttrBase = e.BGPPathAttrBase.Clone()
	x.Value = make([]ExtCommunity, len(e.Value))
	copy(x.Value, e.Value)
	return &x
}

func (e *BGPPathAttrExtCommunities) Encode() ([]byte, error) {
	pkt, err := e.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	idx := int(e.BGPPathAttrLen)
	for _, ecomm := range e.Value {
		copy(pkt[idx:], ecomm[:])
		idx += 8
	}
	return pkt, nil
}

func (e *BGPPathAttrExtCommunities) Decode(pkt []byte, data interface{}) error {
	err := e.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if e.Length%8 != 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:e.TotalLen()],
			fmt.Sprintf("EXT_COMMUNITIES has bad length %d", e.Length)}
	}

	e.Value = make([]ExtCommunity, 0, e.Length/8)
	for idx := uint32(e.BGPPathAttrLen); idx < e.TotalLen(); idx += 8 {
		var ecomm ExtCommunity
		copy(ecomm[:], pkt[idx:idx+8])
		e.Value = append(e.Value, ecomm)
	}
	return nil
}

func (e *BGPPathAttrExtCommunities) New() BGPPathAttr {
	return &BGPPathAttrExtCommunities{}
}

func (e *BGPPathAttrExtCommunities) String() string {
	return fmt.Sprintf("{EXT_COMMUNITIES %v}", e.Value)
}

func NewBGPPathAttrExtCommunities(ecomms []ExtCommunity) *BGPPathAttrExtCommunities {
	attr := &BGPPathAttrExtCommunities{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeExtCommunities,
			Length:         uint16(len(ecomms) * 8),
			BGPPathAttrLen: 3,
		},
		Value: ecomms,
	}
	if attr.Length > 255 {
		attr.Flags |= BGPPathAttrFlagExtendedLen
		attr.BGPPathAttrLen = 4
	}
	return attr
}

type BGPPathAttrLargeCommunities struct {
	BGPPathAttrBase
	Value []LargeCommunity
}

func (l *BGPPathAttrLargeCommunities) Clone() BGPPathAttr {
	x := *l
	x.BGPPathAttrBase = l.BGPPathAttrBase.Clone()
	x.Value = make([]LargeCommunity, len(l.Value))
	copy(x.Value, l.Value)
	return &x
}

func (l *BGPPathAttrLargeCommunities) Encode() ([]byte, error) {
	pkt, err := l.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	idx := int(l.BGPPathAttrLen)
	for _, lcomm := range l.Value {
		binary.BigEndian.PutUint32(pkt[idx:], lcomm.GlobalAdmin)
		binary.BigEndian.PutUint32(pkt[idx+4:], lcomm.LocalData1)
		binary.BigEndian.PutUint32(pkt[idx+8:], lcomm.LocalData2)
		idx += 12
	}
	return pkt, nil
}

func (l *BGPPathAttrLargeCommunities) Decode(pkt []byte, data interface{}) error {
	err := l.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if l.Length%12 != 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:l.TotalLen()],
			fmt.Sprintf("LARGE_COMMUNITY has bad length %d", l.Length)}
	}

	l.Value = make([]LargeCommunity, 0, l.Length/12)
	for idx := uint32(l.BGPPathAttrLen); idx < l.TotalLen(); idx += 12 {
		l.Value = append(l.Value, LargeCommunity{
			GlobalAdmin: binary.BigEndian.Uint32(pkt[idx:]),
			LocalData1:  binary.BigEndian.Uint32(pkt[idx+4:]),
			LocalData2:  binary.BigEndian.Uint32(pkt[idx+8:]),
		})
	}
	return nil
}

func (l *BGPPathAttrLargeCommunities) New() BGPPathAttr {
	return &BGPPathAttrLargeCommunities{}
}

func (l *BGPPathAttrLargeCommunities) String() string {
	return fmt.Sprintf("{LARGE_COMMUNITY %v}", l.Value)
}

func NewBGPPathAttrLargeCommunities(lcomms []LargeCommunity) *BGPPathAttrLargeCommunities {
	attr := &BGPPathAttrLargeCommunities{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeLargeCommunities,
			Length:         uint16(len(lcomms) * 12),
			BGPPathAttrLen: 3,
		},
		Value: lcomms,
	}
	if attr.Length > 255 {
		attr.Flags |= BGPPathAttrFlagExtendedLen
		attr.BGPPathAttrLen = 4
	}
	return attr
}

// CommunitySet is the interned, record side form of a COMMUNITY list.
type CommunitySet struct {
	Value []uint32
}

func (c *CommunitySet) HashKey() uint32 {
	buf := make([]byte, len(c.Value)*4)
	for i, comm := range c.Value {
		binary.BigEndian.PutUint32(buf[i*4:], comm)
	}
	return farm.Fingerprint32(buf)
}

func (c *CommunitySet) Equal(other intern.Value) bool {
	o, ok := other.(*CommunitySet)
	if !ok || len(o.Value) != len(c.Value) {
		return false
	}
	for i := range c.Value {
		if c.Value[i] != o.Value[i] {
			return false
		}
	}
	return true
}

func (c *CommunitySet) Clone() *CommunitySet {
	x := &CommunitySet{Value: make([]uint32, len(c.Value))}
	copy(x.Value, c.Value)
	return x
}

func (c *CommunitySet) Contains(comm uint32) bool {
	for _, val := range c.Value {
		if val == comm {
			return true
		}
	}
	return false
}

func NewCommunitySet(comms []uint32) *CommunitySet {
	return &CommunitySet{Value: comms}
}

// ExtCommunitySet is the interned, record side form of EXT_COMMUNITIES.
type ExtCommunitySet struct {
	Value []ExtCommunity
}

func (e *ExtCommunitySet) HashKey() uint32 {
	buf := make([]byte, 0, len(e.Value)*8)
	for _, ecomm := range e.Value {
		buf = append(buf, ecomm[:]...)
	}
	return farm.Fingerprint32(buf)
}

func (e *ExtCommunitySet) Equal(other intern.Value) bool {
	o, ok := other.(*ExtCommunitySet)
	if !ok || len(o.Value) != len(e.Value) {
		return false
	}
	for i := range e.Value {
		if e.Value[i] != o.Value[i] {
			return false
		}
	}
	return true
}

func (e *ExtCommunitySet) Clone() *ExtCommunitySet {
	x := &ExtCommunitySet{Value: make([]ExtCommunity, len(e.Value))}
	copy(x.Value, e.Value)
	return x
}

// TransitiveOnly returns the entries that may cross an AS boundary, the
// filter applied when exporting to an external peer.
func (e *ExtCommunitySet) TransitiveOnly() []ExtCommunity {
	ecomms := make([]ExtCommunity, 0, len(e.Value))
	for _, ecomm := range e.Value {
		if ecomm.IsTransitive() {
			ecomms = append(ecomms, ecomm)
		}
	}
	return ecomms
}

func NewExtCommunitySet(ecomms []ExtCommunity) *ExtCommunitySet {
	return &ExtCommunitySet{Value: ecomms}
}

// LargeCommunitySet is the interned, record side form of LARGE_COMMUNITY.
type LargeCommunitySet struct {
	Value []LargeCommunity
}

func (l *LargeCommunitySet) HashKey() uint32 {
	buf := make([]byte, len(l.Value)*12)
	for i, lcomm := range l.Value {
		binary.BigEndian.PutUint32(buf[i*12:], lcomm.GlobalAdmin)
		binary.BigEndian.PutUint32(buf[i*12+4:], lcomm.LocalData1)
		binary.BigEndian.PutUint32(buf[i*12+8:], lcomm.LocalData2)
	}
	return farm.Fingerprint32(buf)
}

func (l *LargeCommunitySet) Equal(other intern.Value) bool {
	o, ok := other.(*LargeCommunitySet)
	if !ok || len(o.Value) != len(l.Value) {
		return false
	}
	for i := range l.Value {
		if l.Value[i] != o.Value[i] {
			return false
		}
	}
	return true
}

func (l *LargeCommunitySet) Clone() *LargeCommunitySet {
	x := &LargeCommunitySet{Value: make([]LargeCommunity, len(l.Value))}
	copy(x.Value, l.Value)
	return x
}

func NewLargeCommunitySet(lcomms []LargeCommunity) *LargeCommunitySet {
	return &LargeCommunitySet{Value: lcomms}
}
