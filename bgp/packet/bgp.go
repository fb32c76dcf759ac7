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

// bgp.go
package packet

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"

	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

const BGPASTrans uint32 = 23456

const BGPHeaderMarkerLen int = 16

const (
	_ uint8 = iota
	BGPMsgTypeOpen
	BGPMsgTypeUpdate
	BGPMsgTypeNotification
	BGPMsgTypeKeepAlive
)

const (
	BGPUpdateMsgWithdrawnRouteLen = 2
	BGPUpdateMsgTotalPathAttrsLen = 2
	BGPMsgHeaderLen               = 19
	BGPUpdateMsgMinLen            = 23
	BGPMsgMaxLen                  = 4096
)

const (
	_ uint8 = iota
	BGPMsgHeaderError
	BGPOpenMsgError
	BGPUpdateMsgError
	BGPHoldTimerExpired
	BGPFSMError
	BGPCease
)

const (
	_ uint8 = iota
	BGPConnNotSychd
	BGPBadMessageLen
	BGPBadMessageType
)

const (
	_ uint8 = iota
	BGPMalformedAttrList
	BGPUnrecognizedWellKnownAttr
	BGPMissingWellKnownAttr
	BGPAttrFlagsError
	BGPAttrLenError
	BGPInvalidOriginAttr
	_
	BGPInvalidNextHopAttr
	BGPOptionalAttrError
	BGPInvalidNetworkField
	BGPMalformedASPath
)

type BGPPathAttrFlag uint8

const (
	_ BGPPathAttrFlag = 1 << (iota + 3)
	BGPPathAttrFlagExtendedLen
	BGPPathAttrFlagPartial
	BGPPathAttrFlagTransitive
	BGPPathAttrFlagOptional
)

const (
	BGPPathAttrFlagAll                 BGPPathAttrFlag = 0xF0
	BGPPathAttrFlagAllMinusExtendedLen BGPPathAttrFlag = 0xE0
	// Partial legitimately varies on optional transitive attrs, so their
	// flag rule masks it out along with extended length.
	BGPPathAttrFlagOptTransMask BGPPathAttrFlag = 0xC0
)

type BGPPathAttrType uint8

const (
	_ BGPPathAttrType = iota
	BGPPathAttrTypeOrigin
	BGPPathAttrTypeASPath
	BGPPathAttrTypeNextHop
	BGPPathAttrTypeMultiExitDisc
	BGPPathAttrTypeLocalPref
	BGPPathAttrTypeAtomicAggregate
	BGPPathAttrTypeAggregator
	BGPPathAttrTypeCommunities
	BGPPathAttrTypeOriginatorId
	BGPPathAttrTypeClusterList
)

const (
	BGPPathAttrTypeMPReachNLRI      BGPPathAttrType = 14
	BGPPathAttrTypeMPUnreachNLRI    BGPPathAttrType = 15
	BGPPathAttrTypeExtCommunities   BGPPathAttrType = 16
	BGPPathAttrTypeAS4Path          BGPPathAttrType = 17
	BGPPathAttrTypeAS4Aggregator    BGPPathAttrType = 18
	BGPPathAttrTypeEncap            BGPPathAttrType = 23
	BGPPathAttrTypeLargeCommunities BGPPathAttrType = 32
)

var BGPPathAttrTypeToStrMap = map[BGPPathAttrType]string{
	BGPPathAttrTypeOrigin:           "ORIGIN",
	BGPPathAttrTypeASPath:           "AS_PATH",
	BGPPathAttrTypeNextHop:          "NEXT_HOP",
	BGPPathAttrTypeMultiExitDisc:    "MULTI_EXIT_DISC",
	BGPPathAttrTypeLocalPref:        "LOCAL_PREF",
	BGPPathAttrTypeAtomicAggregate:  "ATOMIC_AGGREGATE",
	BGPPathAttrTypeAggregator:       "AGGREGATOR",
	BGPPathAttrTypeCommunities:      "COMMUNITY",
	BGPPathAttrTypeOriginatorId:     "ORIGINATOR_ID",
	BGPPathAttrTypeClusterList:      "CLUSTER_LIST",
	BGPPathAttrTypeMPReachNLRI:      "MP_REACH_NLRI",
	BGPPathAttrTypeMPUnreachNLRI:    "MP_UNREACH_NLRI",
	BGPPathAttrTypeExtCommunities:   "EXT_COMMUNITIES",
	BGPPathAttrTypeAS4Path:          "AS4_PATH",
	BGPPathAttrTypeAS4Aggregator:    "AS4_AGGREGATOR",
	BGPPathAttrTypeEncap:            "ENCAP",
	BGPPathAttrTypeLargeCommunities: "LARGE_COMMUNITY",
}

func (t BGPPathAttrType) String() string {
	if str, ok := BGPPathAttrTypeToStrMap[t]; ok {
		return str
	}
	return fmt.Sprintf("ATTR_TYPE_%d", uint8(t))
}

type BGPPathAttrOriginType uint8

const (
	BGPPathAttrOriginIGP BGPPathAttrOriginType = iota
	BGPPathAttrOriginEGP
	BGPPathAttrOriginIncomplete
	BGPPathAttrOriginMax
)

var BGPPathAttrOriginToStrMap = map[BGPPathAttrOriginType]string{
	BGPPathAttrOriginIGP:        "IGP",
	BGPPathAttrOriginEGP:        "EGP",
	BGPPathAttrOriginIncomplete: "Incomplete",
}

type BGPASPathSegmentType uint8

const (
	BGPASPathSegmentSet BGPASPathSegmentType = iota + 1
	BGPASPathSegmentSequence
	BGPASPathSegmentConfedSequence
	BGPASPathSegmentConfedSet
)

var BGPPathAttrWellKnownMandatory = []BGPPathAttrType{
	BGPPathAttrTypeOrigin, BGPPathAttrTypeASPath, BGPPathAttrTypeNextHop}

// BGPPathAttrFlagRule is one row of the flag validation table: the bits
// that must be set for the type and the mask under which the received
// flags are compared.
type BGPPathAttrFlagRule struct {
	Required BGPPathAttrFlag
	Mask     BGPPathAttrFlag
}

var BGPPathAttrTypeFlagsMap = map[BGPPathAttrType]BGPPathAttrFlagRule{
	BGPPathAttrTypeOrigin:           {BGPPathAttrFlagTransitive, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeASPath:           {BGPPathAttrFlagTransitive, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeNextHop:          {BGPPathAttrFlagTransitive, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeMultiExitDisc:    {BGPPathAttrFlagOptional, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeLocalPref:        {BGPPathAttrFlagTransitive, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeAtomicAggregate:  {BGPPathAttrFlagTransitive, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeAggregator:       {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
	BGPPathAttrTypeCommunities:      {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
	BGPPathAttrTypeOriginatorId:     {BGPPathAttrFlagOptional, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeClusterList:      {BGPPathAttrFlagOptional, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeMPReachNLRI:      {BGPPathAttrFlagOptional, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeMPUnreachNLRI:    {BGPPathAttrFlagOptional, BGPPathAttrFlagAllMinusExtendedLen},
	BGPPathAttrTypeExtCommunities:   {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
	BGPPathAttrTypeAS4Path:          {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
	BGPPathAttrTypeAS4Aggregator:    {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
	BGPPathAttrTypeEncap:            {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
	BGPPathAttrTypeLargeCommunities: {BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive, BGPPathAttrFlagOptTransMask},
}

var BGPPathAttrTypeLenMap = map[BGPPathAttrType]uint16{
	BGPPathAttrTypeOrigin:          1,
	BGPPathAttrTypeNextHop:         4,
	BGPPathAttrTypeMultiExitDisc:   4,
	BGPPathAttrTypeLocalPref:       4,
	BGPPathAttrTypeAtomicAggregate: 0,
	BGPPathAttrTypeOriginatorId:    4,
	BGPPathAttrTypeAS4Aggregator:   8,
}

type BGPMessageError struct {
	TypeCode    uint8
	SubTypeCode uint8
	Data        []byte
	Message     string
}

func (e BGPMessageError) Error() string {
	return fmt.Sprintf("%v:%v - %v", e.TypeCode, e.SubTypeCode, e.Message)
}

type BGPPathAttr interface {
	Clone() BGPPathAttr
	Encode() ([]byte, error)
	Decode(pkt []byte, data interface{}) error
	TotalLen() uint32
	GetCode() BGPPathAttrType
	New() BGPPathAttr
	String() string
}

type BGPPathAttrBase struct {
	Flags          BGPPathAttrFlag
	Code           BGPPathAttrType
	Length         uint16
	BGPPathAttrLen uint16
}

func (pa *BGPPathAttrBase) Clone() BGPPathAttrBase {
	x := *pa
	return x
}

func (pa *BGPPathAttrBase) Encode() ([]byte, error) {
	pkt := make([]byte, pa.TotalLen())
	pkt[0] = uint8(pa.Flags)
	pkt[1] = uint8(pa.Code)

	if pa.Flags&BGPPathAttrFlagExtendedLen != 0 {
		binary.BigEndian.PutUint16(pkt[2:], pa.Length)
	} else {
		pkt[2] = uint8(pa.Length)
	}

	return pkt, nil
}

// flagsDiagnose logs which of the O/T/P bits disagrees with the flag rule
// for the type, one line per bad bit.
func (pa *BGPPathAttrBase) flagsDiagnose(rule BGPPathAttrFlagRule) {
	bits := []struct {
		flag BGPPathAttrFlag
		name string
	}{
		{BGPPathAttrFlagOptional, "Optional"},
		{BGPPathAttrFlagTransitive, "Transitive"},
		{BGPPathAttrFlagPartial, "Partial"},
	}
	for _, bit := range bits {
		if rule.Mask&bit.flag == 0 {
			continue
		}
		if rule.Required&bit.flag != pa.Flags&bit.flag {
			if rule.Required&bit.flag != 0 {
				utils.Logger.Errf("%s attribute must have the %s flag set", pa.Code, bit.name)
			} else {
				utils.Logger.Errf("%s attribute must not have the %s flag set", pa.Code, bit.name)
			}
		}
	}
}

func (pa *BGPPathAttrBase) checkFlags(pkt []byte) error {
	if pa.Flags&BGPPathAttrFlagOptional == 0 && pa.Flags&BGPPathAttrFlagTransitive == 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrFlagsError, pkt[:pa.TotalLen()],
			"Transitive bit is not set in a well-known attribute"}
	}

	if pa.Flags&BGPPathAttrFlagPartial != 0 {
		if pa.Flags&BGPPathAttrFlagOptional == 0 {
			return BGPMessageError{BGPUpdateMsgError, BGPAttrFlagsError, pkt[:pa.TotalLen()],
				"Partial bit is set in a well-known attribute"}
		}

		if pa.Flags&BGPPathAttrFlagTransitive == 0 {
			return BGPMessageError{BGPUpdateMsgError, BGPAttrFlagsError, pkt[:pa.TotalLen()],
				"Partial bit is set in an optional non-transitive attribute"}
		}
	}

	return nil
}

func (pa *BGPPathAttrBase) Decode(pkt []byte, data interface{}) error {
	if len(pkt) < 3 {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, nil, "Not enough data to decode"}
	}

	pa.Flags = BGPPathAttrFlag(pkt[0])
	pa.Code = BGPPathAttrType(pkt[1])

	if pa.Flags&BGPPathAttrFlagExtendedLen != 0 {
		if len(pkt) < 4 {
			return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, nil, "Not enough data to decode"}
		}
		pa.Length = binary.BigEndian.Uint16(pkt[2:4])
		pa.BGPPathAttrLen = 4
	} else {
		pa.Length = uint16(pkt[2])
		pa.BGPPathAttrLen = 3
	}
	if len(pkt) < int(pa.Length)+int(pa.BGPPathAttrLen) {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt,
			fmt.Sprintf("%s length %d overruns the attribute data", pa.Code, pa.Length)}
	}

	if rule, ok := BGPPathAttrTypeFlagsMap[pa.Code]; ok {
		if (pa.Flags^rule.Required)&rule.Mask != 0 {
			pa.flagsDiagnose(rule)
			return BGPMessageError{BGPUpdateMsgError, BGPAttrFlagsError, pkt[:pa.TotalLen()],
				fmt.Sprintf("Bad attribute flags 0x%x for %s", uint8(pa.Flags), pa.Code)}
		}
	}

	err := pa.checkFlags(pkt)
	if err != nil {
		return err
	}

	if length, ok := BGPPathAttrTypeLenMap[pa.Code]; ok && length != pa.Length {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[:pa.TotalLen()],
			fmt.Sprintf("%s has bad length %d, expected %d", pa.Code, pa.Length, length)}
	}

	return nil
}

func (pa *BGPPathAttrBase) TotalLen() uint32 {
	return uint32(pa.Length) + uint32(pa.BGPPathAttrLen)
}

func (pa *BGPPathAttrBase) GetCode() BGPPathAttrType {
	return pa.Code
}

func (pa *BGPPathAttrBase) String() string {
	return ""
}

type BGPPathAttrOrigin struct {
	BGPPathAttrBase
	Value BGPPathAttrOriginType
}

func (o *BGPPathAttrOrigin) Clone() BGPPathAttr {
	x := *o
	x.BGPPathAttrBase = o.BGPPathAttrBase.Clone()
	return &x
}

func (o *BGPPathAttrOrigin) Encode() ([]byte, error) {
	pkt, err := o.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	pkt[o.BGPPathAttrLen] = uint8(o.Value)
	return pkt, nil
}

func (o *BGPPathAttrOrigin) Decode(pkt []byte, data interface{}) error {
	err := o.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	o.Value = BGPPathAttrOriginType(pkt[o.BGPPathAttrLen])

	if o.Value >= BGPPathAttrOriginMax {
		return BGPMessageError{BGPUpdateMsgError, BGPInvalidOriginAttr, pkt[:o.TotalLen()],
			fmt.Sprintf("Undefined ORIGIN value %d", uint8(o.Value))}
	}
	return nil
}

func (o *BGPPathAttrOrigin) New() BGPPathAttr {
	return &BGPPathAttrOrigin{}
}

func (o *BGPPathAttrOrigin) String() string {
	return fmt.Sprintf("{ORIGIN %s}", BGPPathAttrOriginToStrMap[o.Value])
}

func NewBGPPathAttrOrigin(originType BGPPathAttrOriginType) *BGPPathAttrOrigin {
	origin := &BGPPathAttrOrigin{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeOrigin,
			Length:         1,
			BGPPathAttrLen: 3,
		},
		Value: originType,
	}

	return origin
}

type BGPASPathSegment interface {
	Clone() BGPASPathSegment
	Encode(pkt []byte) error
	Decode(pkt []byte, data interface{}) error
	PrependAS(as uint32) bool
	AppendAS(as uint32) bool
	TotalLen() uint16
	GetType() BGPASPathSegmentType
	GetLen() uint8
	GetNumASes() uint8
	String() string
}

type BGPASPathSegmentBase struct {
	Type                BGPASPathSegmentType
	Length              uint8
	BGPASPathSegmentLen uint16
}

func (ps *BGPASPathSegmentBase) Encode(pkt []byte) error {
	pkt[0] = uint8(ps.Type)
	pkt[1] = ps.Length

	return nil
}

func (ps *BGPASPathSegmentBase) Decode(pkt []byte, data interface{}) error {
	if len(pkt) <= 2 {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, nil, "Not enough data to decode AS path segment"}
	}

	ps.Type = BGPASPathSegmentType(pkt[0])
	ps.Length = pkt[1]

	if ps.Length == 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, nil, "AS path segment with zero ASes"}
	}
	return nil
}

func (ps *BGPASPathSegmentBase) TotalLen() uint16 {
	return ps.BGPASPathSegmentLen
}

func (ps *BGPASPathSegmentBase) GetType() BGPASPathSegmentType {
	return ps.Type
}

func (ps *BGPASPathSegmentBase) GetLen() uint8 {
	return ps.Length
}

// segmentHops is the hop count contribution of a segment: a set counts as
// one hop and confed segments count as zero.
func segmentHops(segType BGPASPathSegmentType, numASes int) uint8 {
	switch segType {
	case BGPASPathSegmentSequence:
		return uint8(numASes)
	case BGPASPathSegmentSet:
		return 1
	default:
		return 0
	}
}

type BGPAS2PathSegment struct {
	BGPASPathSegmentBase
	AS []uint16
}

func (ps *BGPAS2PathSegment) Clone() BGPASPathSegment {
	x := *ps
	x.AS = make([]uint16, len(ps.AS), cap(ps.AS))
	copy(x.AS, ps.AS)
	return &x
}

func (ps *BGPAS2PathSegment) Encode(pkt []byte) error {
	if err := ps.BGPASPathSegmentBase.Encode(pkt); err != nil {
		return err
	}

	for i, as := range ps.AS {
		binary.BigEndian.PutUint16(pkt[(i*2)+2:], as)
	}

	return nil
}

func (ps *BGPAS2PathSegment) Decode(pkt []byte, data interface{}) error {
	if err := ps.BGPASPathSegmentBase.Decode(pkt, data); err != nil {
		return err
	}

	if (len(pkt) - 2) < int(ps.Length)*2 {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, nil, "Not enough data to decode AS path segment"}
	}

	ps.AS = make([]uint16, ps.Length)
	for i := 0; i < int(ps.Length); i++ {
		ps.AS[i] = binary.BigEndian.Uint16(pkt[(i*2)+2:])
	}
	ps.BGPASPathSegmentLen = uint16(ps.Length)*2 + 2
	return nil
}

func (ps *BGPAS2PathSegment) GetNumASes() uint8 {
	return segmentHops(ps.Type, len(ps.AS))
}

func (ps *BGPAS2PathSegment) PrependAS(as uint32) bool {
	if ps.Length >= 255 {
		return false
	}

	ps.AS = append(ps.AS, uint16(as))
	copy(ps.AS[1:], ps.AS[0:])
	ps.AS[0] = uint16(as)
	ps.Length += 1
	ps.BGPASPathSegmentLen += 2
	return true
}

func (ps *BGPAS2PathSegment) AppendAS(as uint32) bool {
	if ps.Length >= 255 {
		return false
	}

	ps.AS = append(ps.AS, uint16(as))
	ps.Length += 1
	ps.BGPASPathSegmentLen += 2
	return true
}

// CloneAsAS4PathSegment widens the segment to the 4-byte form kept in
// attribute records.
func (ps *BGPAS2PathSegment) CloneAsAS4PathSegment() *BGPAS4PathSegment {
	x := NewBGPAS4PathSegment(ps.Type)
	x.AS = make([]uint32, len(ps.AS))
	x.Length = ps.Length
	x.BGPASPathSegmentLen += uint16(x.Length) * 4
	for i, as := range ps.AS {
		x.AS[i] = uint32(as)
	}
	return x
}

func (ps *BGPAS2PathSegment) String() string {
	return fmt.Sprintf("%v", ps.AS)
}

func NewBGPAS2PathSegment(segType BGPASPathSegmentType) *BGPAS2PathSegment {
	as := make([]uint16, 0)
	return &BGPAS2PathSegment{
		BGPASPathSegmentBase: BGPASPathSegmentBase{
			Type:                segType,
			Length:              0,
			BGPASPathSegmentLen: 2,
		},
		AS: as,
	}
}

func NewBGPAS2PathSegmentSeq() *BGPAS2PathSegment {
	return NewBGPAS2PathSegment(BGPASPathSegmentSequence)
}

type BGPAS4PathSegment struct {
	BGPASPathSegmentBase
	AS []uint32
}

func (ps *BGPAS4PathSegment) Clone() BGPASPathSegment {
	x := *ps
	x.AS = make([]uint32, len(ps.AS), cap(ps.AS))
	copy(x.AS, ps.AS)
	return &x
}

func (ps *BGPAS4PathSegment) CloneAsAS4PathSegment() *BGPAS4PathSegment {
	x := *ps
	x.AS = make([]uint32, len(ps.AS), cap(ps.AS))
	copy(x.AS, ps.AS)
	return &x
}

// CloneAsAS2PathSegment narrows the segment to the 2-byte wire form,
// substituting AS_TRANS for unmappable ASes. The second return reports
// whether every AS fit.
func (ps *BGPAS4PathSegment) CloneAsAS2PathSegment() (*BGPAS2PathSegment, bool) {
	x := NewBGPAS2PathSegment(ps.Type)
	x.AS = make([]uint16, len(ps.AS), cap(ps.AS))
	x.Length = ps.Length
	x.BGPASPathSegmentLen += uint16(x.Length) * 2
	mappable := true
	for i, as := range ps.AS {
		if as > math.MaxUint16 {
			x.AS[i] = uint16(BGPASTrans)
			mappable = false
		} else {
			x.AS[i] = uint16(as)
		}
	}
	return x, mappable
}

func (ps *BGPAS4PathSegment) Encode(pkt []byte) error {
	if err := ps.BGPASPathSegmentBase.Encode(pkt); err != nil {
		return err
	}

	for i, as := range ps.AS {
		binary.BigEndian.PutUint32(pkt[(i*4)+2:], as)
	}

	return nil
}

func (ps *BGPAS4PathSegment) Decode(pkt []byte, data interface{}) error {
	if err := ps.BGPASPathSegmentBase.Decode(pkt, data); err != nil {
		return err
	}

	if (len(pkt) - 2) < int(ps.Length)*4 {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, nil, "Not enough data to decode AS path segment"}
	}

	ps.AS = make([]uint32, ps.Length)
	for i := 0; i < int(ps.Length); i++ {
		ps.AS[i] = binary.BigEndian.Uint32(pkt[(i*4)+2:])
	}
	ps.BGPASPathSegmentLen = uint16(ps.Length)*4 + 2
	return nil
}

func (ps *BGPAS4PathSegment) GetNumASes() uint8 {
	return segmentHops(ps.Type, len(ps.AS))
}

func (ps *BGPAS4PathSegment) PrependAS(as uint32) bool {
	if ps.Length >= 255 {
		return false
	}

	ps.AS = append(ps.AS, as)
	copy(ps.AS[1:], ps.AS[0:])
	ps.AS[0] = as
	ps.Length += 1
	ps.BGPASPathSegmentLen += 4
	return true
}

func (ps *BGPAS4PathSegment) AppendAS(as uint32) bool {
	if ps.Length >= 255 {
		return false
	}

	ps.AS = append(ps.AS, as)
	ps.Length += 1
	ps.BGPASPathSegmentLen += 4
	return true
}

func (ps *BGPAS4PathSegment) String() string {
	return fmt.Sprintf("%v", ps.AS)
}

func NewBGPAS4PathSegment(segType BGPASPathSegmentType) *BGPAS4PathSegment {
	as := make([]uint32, 0)
	return &BGPAS4PathSegment{
		BGPASPathSegmentBase: BGPASPathSegmentBase{
			Type:                segType,
			Length:              0,
			BGPASPathSegmentLen: 2,
		},
		AS: as,
	}
}

func NewBGPAS4PathSegmentSeq() *BGPAS4PathSegment {
	return NewBGPAS4PathSegment(BGPASPathSegmentSequence)
}

func NewBGPAS4PathSegmentSet() *BGPAS4PathSegment {
	return NewBGPAS4PathSegment(BGPASPathSegmentSet)
}

type BGPPathAttrASPath struct {
	BGPPathAttrBase
	Value  []BGPASPathSegment
	ASSize uint8
}

func (as *BGPPathAttrASPath) Clone() BGPPathAttr {
	return as.CloneASPath()
}

func (as *BGPPathAttrASPath) CloneASPath() *BGPPathAttrASPath {
	x := *as
	x.BGPPathAttrBase = as.BGPPathAttrBase.Clone()
	x.Value = make([]BGPASPathSegment, 0, len(as.Value))
	for _, item := range as.Value {
		x.Value = append(x.Value, item.Clone())
	}
	return &x
}

func (as *BGPPathAttrASPath) Encode() ([]byte, error) {
	pkt, err := as.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	length := as.BGPPathAttrBase.BGPPathAttrLen
	for _, val := range as.Value {
		err = val.Encode(pkt[length:])
		if err != nil {
			return pkt, err
		}
		length += val.TotalLen()
	}

	return pkt, nil
}

func (as *BGPPathAttrASPath) Decode(pkt []byte, data interface{}) error {
	err := as.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	as.ASSize = 4
	if peerAttrs, ok := data.(BGPPeerAttrs); ok && peerAttrs.ASSize == 2 {
		as.ASSize = 2
	}

	as.Value = make([]BGPASPathSegment, 0)
	ptr := uint32(as.BGPPathAttrLen)
	var asPathSegment BGPASPathSegment
	for ptr < as.TotalLen() {
		if as.ASSize == 4 {
			asPathSegment = NewBGPAS4PathSegmentSeq()
		} else {
			asPathSegment = NewBGPAS2PathSegmentSeq()
		}

		err = asPathSegment.Decode(pkt[ptr:as.TotalLen()], data)
		if err != nil {
			return err
		}
		ptr += uint32(asPathSegment.TotalLen())
		if ptr > as.TotalLen() {
			return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, pkt[:as.TotalLen()], "AS path segment overruns the attribute"}
		}
		as.Value = append(as.Value, asPathSegment)
	}
	if ptr != as.TotalLen() {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, pkt[:as.TotalLen()], "AS path segments do not cover the attribute"}
	}
	return nil
}

func (as *BGPPathAttrASPath) PrependASPathSegment(pathSeg BGPASPathSegment) {
	as.Value = append(as.Value, pathSeg)
	copy(as.Value[1:], as.Value[0:])
	as.Value[0] = pathSeg
	as.BGPPathAttrBase.Length += pathSeg.TotalLen()
}

func (as *BGPPathAttrASPath) AppendASPathSegment(pathSeg BGPASPathSegment) {
	as.Value = append(as.Value, pathSeg)
	as.BGPPathAttrBase.Length += pathSeg.TotalLen()
}

func (as *BGPPathAttrASPath) New() BGPPathAttr {
	return &BGPPathAttrASPath{}
}

func (as *BGPPathAttrASPath) String() string {
	return fmt.Sprintf("{ASPATH %v}", as.Value)
}

func NewBGPPathAttrASPath() *BGPPathAttrASPath {
	asPath := &BGPPathAttrASPath{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags: BGPPathAttrFlagTransitive | BGPPathAttrFlagExtendedLen,
			Code:  BGPPathAttrTypeASPath,
		},
		Value:  make([]BGPASPathSegment, 0),
		ASSize: 4,
	}
	asPath.BGPPathAttrBase.Length = 0
	asPath.BGPPathAttrBase.BGPPathAttrLen = 4
	return asPath
}

type BGPPathAttrAS4Path struct {
	BGPPathAttrBase
	Value []*BGPAS4PathSegment
}

func (as *BGPPathAttrAS4Path) Clone() BGPPathAttr {
	x := *as
	x.BGPPathAttrBase = as.BGPPathAttrBase.Clone()
	x.Value = make([]*BGPAS4PathSegment, 0, len(as.Value))
	for _, item := range as.Value {
		x.Value = append(x.Value, item.CloneAsAS4PathSegment())
	}
	return &x
}

func (as *BGPPathAttrAS4Path) Encode() ([]byte, error) {
	pkt, err := as.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	length := as.BGPPathAttrBase.BGPPathAttrLen
	for _, val := range as.Value {
		err = val.Encode(pkt[length:])
		if err != nil {
			return pkt, err
		}
		length += val.TotalLen()
	}

	return pkt, nil
}

func (as *BGPPathAttrAS4Path) Decode(pkt []byte, data interface{}) error {
	err := as.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	as.Value = make([]*BGPAS4PathSegment, 0)
	ptr := uint32(as.BGPPathAttrLen)
	for ptr < as.TotalLen() {
		asPathSegment := NewBGPAS4PathSegmentSeq()

		err = asPathSegment.Decode(pkt[ptr:as.TotalLen()], data)
		if err != nil {
			return err
		}
		ptr += uint32(asPathSegment.TotalLen())
		if ptr > as.TotalLen() {
			return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, pkt[:as.TotalLen()], "AS4_PATH segment overruns the attribute"}
		}
		as.Value = append(as.Value, asPathSegment)
	}
	if ptr != as.TotalLen() {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedASPath, pkt[:as.TotalLen()], "AS4_PATH segments do not cover the attribute"}
	}
	return nil
}

func (as *BGPPathAttrAS4Path) AddASPathSegment(pathSeg *BGPAS4PathSegment) {
	as.Value = append(as.Value, pathSeg)
	as.BGPPathAttrBase.Length += pathSeg.TotalLen()
}

func (as *BGPPathAttrAS4Path) New() BGPPathAttr {
	return &BGPPathAttrAS4Path{}
}

func (as *BGPPathAttrAS4Path) String() string {
	return fmt.Sprintf("{AS4PATH %v}", as.Value)
}

func NewBGPPathAttrAS4Path() *BGPPathAttrAS4Path {
	asPath := &BGPPathAttrAS4Path{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags: BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive | BGPPathAttrFlagExtendedLen,
			Code:  BGPPathAttrTypeAS4Path,
		},
		Value: make([]*BGPAS4PathSegment, 0),
	}
	asPath.BGPPathAttrBase.Length = 0
	asPath.BGPPathAttrBase.BGPPathAttrLen = 4
	return asPath
}

// isMartianIPv4 applies the RFC 4271 next hop sanity checks: the address
// must not come from net 0, loopback space or class D/E.
func isMartianIPv4(ip net.IP) bool {
	v4 := ip.To4()
	if v4 == nil {
		return true
	}
	return v4[0] == 0 || v4[0] == 127 || v4[0] >= 224
}

type BGPPathAttrNextHop struct {
	BGPPathAttrBase
	Value net.IP
}

func (n *BGPPathAttrNextHop) Clone() BGPPathAttr {
	x := *n
	x.BGPPathAttrBase = n.BGPPathAttrBase.Clone()
	x.Value = make(net.IP, len(n.Value), cap(n.Value))
	copy(x.Value, n.Value)
	return &x
}

func (n *BGPPathAttrNextHop) Encode() ([]byte, error) {
	pkt, err := n.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	copy(pkt[n.BGPPathAttrBase.BGPPathAttrLen:], n.Value.To4())
	return pkt, nil
}

func (n *BGPPathAttrNextHop) Decode(pkt []byte, data interface{}) error {
	err := n.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	n.Value = make(net.IP, n.Length)
	copy(n.Value, pkt[n.BGPPathAttrLen:n.BGPPathAttrLen+n.Length])

	allowMartian := false
	if peerAttrs, ok := data.(BGPPeerAttrs); ok {
		allowMartian = peerAttrs.AllowMartianNextHop
	}
	if !allowMartian && isMartianIPv4(n.Value) {
		return BGPMessageError{BGPUpdateMsgError, BGPInvalidNextHopAttr, pkt[:n.TotalLen()],
			fmt.Sprintf("Martian NEXT_HOP %s", n.Value)}
	}
	return nil
}

func (n *BGPPathAttrNextHop) New() BGPPathAttr {
	return &BGPPathAttrNextHop{}
}

func (n *BGPPathAttrNextHop) String() string {
	return fmt.Sprintf("{NEXTHOP %v}", n.Value)
}

func NewBGPPathAttrNextHop(nextHop net.IP) *BGPPathAttrNextHop {
	return &BGPPathAttrNextHop{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeNextHop,
			Length:         4,
			BGPPathAttrLen: 3,
		},
		Value: nextHop,
	}
}

type BGPPathAttrMultiExitDisc struct {
	BGPPathAttrBase
	Value uint32
}

func (m *BGPPathAttrMultiExitDisc) Clone() BGPPathAttr {
	x := *m
	x.BGPPathAttrBase = m.BGPPathAttrBase.Clone()
	return &x
}

func (m *BGPPathAttrMultiExitDisc) Encode() ([]byte, error) {
	pkt, err := m.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	binary.BigEndian.PutUint32(pkt[m.BGPPathAttrBase.BGPPathAttrLen:], m.Value)
	return pkt, nil
}

func (m *BGPPathAttrMultiExitDisc) Decode(pkt []byte, data interface{}) error {
	err := m.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	m.Value = binary.BigEndian.Uint32(pkt[m.BGPPathAttrLen : m.BGPPathAttrLen+m.Length])
	return nil
}

func (m *BGPPathAttrMultiExitDisc) New() BGPPathAttr {
	return &BGPPathAttrMultiExitDisc{}
}

func (m *BGPPathAttrMultiExitDisc) String() string {
	return fmt.Sprintf("{MED %d}", m.Value)
}

func NewBGPPathAttrMultiExitDisc(med uint32) *BGPPathAttrMultiExitDisc {
	return &BGPPathAttrMultiExitDisc{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional,
			Code:           BGPPathAttrTypeMultiExitDisc,
			Length:         4,
			BGPPathAttrLen: 3,
		},
		Value: med,
	}
}

type BGPPathAttrLocalPref struct {
	BGPPathAttrBase
	Value uint32
}

func (l *BGPPathAttrLocalPref) Clone() BGPPathAttr {
	x := *l
	x.BGPPathAttrBase = l.BGPPathAttrBase.Clone()
	return &x
}

func (l *BGPPathAttrLocalPref) Encode() ([]byte, error) {
	pkt, err := l.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	binary.BigEndian.PutUint32(pkt[l.BGPPathAttrBase.BGPPathAttrLen:], l.Value)
	return pkt, nil
}

func (l *BGPPathAttrLocalPref) Decode(pkt []byte, data interface{}) error {
	err := l.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	l.Value = binary.BigEndian.Uint32(pkt[l.BGPPathAttrLen : l.BGPPathAttrLen+l.Length])
	return nil
}

func (l *BGPPathAttrLocalPref) New() BGPPathAttr {
	return &BGPPathAttrLocalPref{}
}

func (l *BGPPathAttrLocalPref) String() string {
	return fmt.Sprintf("{LOCAL_PREF %d}", l.Value)
}

func NewBGPPathAttrLocalPref(pref uint32) *BGPPathAttrLocalPref {
	return &BGPPathAttrLocalPref{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeLocalPref,
			Length:         4,
			BGPPathAttrLen: 3,
		},
		Value: pref,
	}
}

type BGPPathAttrAtomicAggregate struct {
	BGPPathAttrBase
}

func (a *BGPPathAttrAtomicAggregate) Clone() BGPPathAttr {
	x := *a
	x.BGPPathAttrBase = a.BGPPathAttrBase.Clone()
	return &x
}

func (a *BGPPathAttrAtomicAggregate) Encode() ([]byte, error) {
	return a.BGPPathAttrBase.Encode()
}

func (a *BGPPathAttrAtomicAggregate) Decode(pkt []byte, data interface{}) error {
	return a.BGPPathAttrBase.Decode(pkt, data)
}

func (a *BGPPathAttrAtomicAggregate) New() BGPPathAttr {
	return &BGPPathAttrAtomicAggregate{}
}

func (a *BGPPathAttrAtomicAggregate) String() string {
	return "{ATOMIC_AGGREGATE}"
}

func NewBGPPathAttrAtomicAggregate() *BGPPathAttrAtomicAggregate {
	return &BGPPathAttrAtomicAggregate{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeAtomicAggregate,
			Length:         0,
			BGPPathAttrLen: 3,
		},
	}
}

type BGPPathAttrAggregator struct {
	BGPPathAttrBase
	ASSize uint8
	AS     uint32
	IP     net.IP
}

func (a *BGPPathAttrAggregator) Clone() BGPPathAttr {
	x := *a
	x.BGPPathAttrBase = a.BGPPathAttrBase.Clone()
	x.IP = make(net.IP, len(a.IP), cap(a.IP))
	copy(x.IP, a.IP)
	return &x
}

func (a *BGPPathAttrAggregator) Encode() ([]byte, error) {
	pkt, err := a.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	idx := a.BGPPathAttrLen
	if a.ASSize == 2 {
		binary.BigEndian.PutUint16(pkt[idx:], uint16(a.AS))
		idx += 2
	} else {
		binary.BigEndian.PutUint32(pkt[idx:], a.AS)
		idx += 4
	}
	copy(pkt[idx:], a.IP.To4())
	return pkt, nil
}

func (a *BGPPathAttrAggregator) Decode(pkt []byte, data interface{}) error {
	err := a.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	a.ASSize = 4
	if peerAttrs, ok := data.(BGPPeerAttrs); ok && peerAttrs.ASSize == 2 {
		a.ASSize = 2
	}

	expLen := uint16(a.ASSize) + 4
	if a.Length != expLen {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[:a.TotalLen()],
			fmt.Sprintf("AGGREGATOR has bad length %d, expected %d", a.Length, expLen)}
	}

	idx := a.BGPPathAttrLen
	if a.ASSize == 2 {
		a.AS = uint32(binary.BigEndian.Uint16(pkt[idx:]))
		idx += 2
	} else {
		a.AS = binary.BigEndian.Uint32(pkt[idx:])
		idx += 4
	}
	a.IP = make(net.IP, 4)
	copy(a.IP, pkt[idx:idx+4])
	return nil
}

func (a *BGPPathAttrAggregator) New() BGPPathAttr {
	return &BGPPathAttrAggregator{}
}

func (a *BGPPathAttrAggregator) String() string {
	return fmt.Sprintf("{AGGREGATOR %d %s}", a.AS, a.IP)
}

func NewBGPPathAttrAggregator(asSize uint8, as uint32, ip net.IP) *BGPPathAttrAggregator {
	length := uint16(8)
	if asSize == 2 {
		length = 6
	}
	return &BGPPathAttrAggregator{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagTransitive | BGPPathAttrFlagOptional,
			Code:           BGPPathAttrTypeAggregator,
			Length:         length,
			BGPPathAttrLen: 3,
		},
		ASSize: asSize,
		AS:     as,
		IP:     ip,
	}
}

type BGPPathAttrAS4Aggregator struct {
	BGPPathAttrBase
	AS uint32
	IP net.IP
}

func (a *BGPPathAttrAS4Aggregator) Clone() BGPPathAttr {
	x := *a
	x.BGPPathAttrBase = a.BGPPathAttrBase.Clone()
	x.IP = make(net.IP, len(a.IP), cap(a.IP))
	copy(x.IP, a.IP)
	return &x
}

func (a *BGPPathAttrAS4Aggregator) Encode() ([]byte, error) {
	pkt, err := a.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	binary.BigEndian.PutUint32(pkt[a.BGPPathAttrLen:], a.AS)
	copy(pkt[a.BGPPathAttrLen+4:], a.IP.To4())
	return pkt, nil
}

func (a *BGPPathAttrAS4Aggregator) Decode(pkt []byte, data interface{}) error {
	err := a.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	a.AS = binary.BigEndian.Uint32(pkt[a.BGPPathAttrLen:])
	a.IP = make(net.IP, 4)
	copy(a.IP, pkt[a.BGPPathAttrLen+4:a.BGPPathAttrLen+8])
	return nil
}

func (a *BGPPathAttrAS4Aggregator) New() BGPPathAttr {
	return &BGPPathAttrAS4Aggregator{}
}

func (a *BGPPathAttrAS4Aggregator) String() string {
	return fmt.Sprintf("{AS4_AGGREGATOR %d %s}", a.AS, a.IP)
}

func NewBGPPathAttrAS4Aggregator(as uint32, ip net.IP) *BGPPathAttrAS4Aggregator {
	return &BGPPathAttrAS4Aggregator{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagTransitive | BGPPathAttrFlagOptional,
			Code:           BGPPathAttrTypeAS4Aggregator,
			Length:         8,
			BGPPathAttrLen: 3,
		},
		AS: as,
		IP: ip,
	}
}

type BGPPathAttrOriginatorId struct {
	BGPPathAttrBase
	Value net.IP
}

func (o *BGPPathAttrOriginatorId) Clone() BGPPathAttr {
	x := *o
	x.BGPPathAttrBase = o.BGPPathAttrBase.Clone()
	x.Value = make(net.IP, len(o.Value), cap(o.Value))
	copy(x.Value, o.Value)
	return &x
}

func (o *BGPPathAttrOriginatorId) Encode() ([]byte, error) {
	pkt, err := o.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	copy(pkt[o.BGPPathAttrBase.BGPPathAttrLen:], o.Value.To4())
	return pkt, nil
}

func (o *BGPPathAttrOriginatorId) Decode(pkt []byte, data interface{}) error {
	err := o.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	o.Value = make(net.IP, o.BGPPathAttrBase.Length)
	copy(o.Value, pkt[o.BGPPathAttrLen:o.BGPPathAttrLen+o.BGPPathAttrBase.Length])
	return nil
}

func (o *BGPPathAttrOriginatorId) New() BGPPathAttr {
	return &BGPPathAttrOriginatorId{}
}

func (o *BGPPathAttrOriginatorId) String() string {
	return fmt.Sprintf("{ORIGINATOR_ID %s}", o.Value)
}

func NewBGPPathAttrOriginatorId(id net.IP) *BGPPathAttrOriginatorId {
	return &BGPPathAttrOriginatorId{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional,
			Code:           BGPPathAttrTypeOriginatorId,
			Length:         4,
			BGPPathAttrLen: 3,
		},
		Value: id,
	}
}

type BGPPathAttrClusterList struct {
	BGPPathAttrBase
	Value []uint32
}

func (c *BGPPathAttrClusterList) Clone() BGPPathAttr {
	x := *c
	x.BGPPathAttrBase = c.BGPPathAttrBase.Clone()
	x.Value = make([]uint32, len(c.Value))
	copy(x.Value, c.Value)
	return &x
}

func (c *BGPPathAttrClusterList) Encode() ([]byte, error) {
	pkt, err := c.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	var i uint16
	for i = 0; i < uint16(len(c.Value)); i++ {
		binary.BigEndian.PutUint32(pkt[c.BGPPathAttrBase.BGPPathAttrLen+(4*i):], c.Value[i])
	}
	return pkt, nil
}

func (c *BGPPathAttrClusterList) Decode(pkt []byte, data interface{}) error {
	err := c.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if c.Length%4 != 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[:c.TotalLen()],
			fmt.Sprintf("CLUSTER_LIST has bad length %d", c.Length)}
	}

	var i uint16
	c.Value = make([]uint32, c.Length/4)
	for i = 0; i < c.Length/4; i++ {
		c.Value[i] = binary.BigEndian.Uint32(pkt[c.BGPPathAttrLen+(4*i) : c.BGPPathAttrLen+(4*i)+4])
	}
	return nil
}

// PrependId adds a cluster id at the front of the list, the position the
// local cluster takes when reflecting a route.
func (c *BGPPathAttrClusterList) PrependId(id uint32) {
	c.Value = append(c.Value, id)
	copy(c.Value[1:], c.Value[0:])
	c.Value[0] = id
	c.Length += 4
}

func (c *BGPPathAttrClusterList) New() BGPPathAttr {
	return &BGPPathAttrClusterList{}
}

func (c *BGPPathAttrClusterList) String() string {
	return fmt.Sprintf("{CLUSTER_LIST %v}", c.Value)
}

func NewBGPPathAttrClusterList() *BGPPathAttrClusterList {
	return &BGPPathAttrClusterList{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional,
			Code:           BGPPathAttrTypeClusterList,
			Length:         0,
			BGPPathAttrLen: 3,
		},
		Value: make([]uint32, 0),
	}
}

// BGPPathAttrUnknown holds any attribute type outside the dispatch table.
// The raw value is kept so optional transitive attrs can be passed along
// unchanged.
type BGPPathAttrUnknown struct {
	BGPPathAttrBase
	Value []byte
}

func (u *BGPPathAttrUnknown) Clone() BGPPathAttr {
	x := *u
	x.BGPPathAttrBase = u.BGPPathAttrBase.Clone()
	x.Value = make([]byte, len(u.Value), cap(u.Value))
	copy(x.Value, u.Value)
	return &x
}

func (u *BGPPathAttrUnknown) Encode() ([]byte, error) {
	pkt, err := u.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	copy(pkt[u.BGPPathAttrBase.BGPPathAttrLen:], u.Value)
	return pkt, nil
}

func (u *BGPPathAttrUnknown) Decode(pkt []byte, data interface{}) error {
	err := u.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	u.Value = make([]byte, u.Length)
	copy(u.Value, pkt[int(u.BGPPathAttrLen):int(u.BGPPathAttrLen)+int(u.Length)])
	return nil
}

func (u *BGPPathAttrUnknown) New() BGPPathAttr {
	return &BGPPathAttrUnknown{}
}

func (u *BGPPathAttrUnknown) String() string {
	return fmt.Sprintf("{%s flags 0x%x len %d}", u.Code, uint8(u.Flags), u.Length)
}

var BGPPathAttrTypeToStructMap = map[BGPPathAttrType]BGPPathAttr{
	BGPPathAttrTypeOrigin:           &BGPPathAttrOrigin{},
	BGPPathAttrTypeASPath:           &BGPPathAttrASPath{},
	BGPPathAttrTypeNextHop:          &BGPPathAttrNextHop{},
	BGPPathAttrTypeMultiExitDisc:    &BGPPathAttrMultiExitDisc{},
	BGPPathAttrTypeLocalPref:        &BGPPathAttrLocalPref{},
	BGPPathAttrTypeAtomicAggregate:  &BGPPathAttrAtomicAggregate{},
	BGPPathAttrTypeAggregator:       &BGPPathAttrAggregator{},
	BGPPathAttrTypeCommunities:      &BGPPathAttrCommunities{},
	BGPPathAttrTypeOriginatorId:     &BGPPathAttrOriginatorId{},
	BGPPathAttrTypeClusterList:      &BGPPathAttrClusterList{},
	BGPPathAttrTypeMPReachNLRI:      &BGPPathAttrMPReachNLRI{},
	BGPPathAttrTypeMPUnreachNLRI:    &BGPPathAttrMPUnreachNLRI{},
	BGPPathAttrTypeExtCommunities:   &BGPPathAttrExtCommunities{},
	BGPPathAttrTypeAS4Path:          &BGPPathAttrAS4Path{},
	BGPPathAttrTypeAS4Aggregator:    &BGPPathAttrAS4Aggregator{},
	BGPPathAttrTypeEncap:            &BGPPathAttrEncap{},
	BGPPathAttrTypeLargeCommunities: &BGPPathAttrLargeCommunities{},
}

// BGPGetPathAttr returns a fresh attribute struct for the type code,
// falling back to the opaque form for codes outside the dispatch table.
func BGPGetPathAttr(typeCode BGPPathAttrType) BGPPathAttr {
	if pathAttr, ok := BGPPathAttrTypeToStructMap[typeCode]; ok {
		return pathAttr.New()
	}
	return &BGPPathAttrUnknown{}
}

// BGPKnownPathAttr reports whether the decoder has a structured form for
// the type code.
func BGPKnownPathAttr(typeCode BGPPathAttrType) bool {
	_, ok := BGPPathAttrTypeToStructMap[typeCode]
	return ok
}
