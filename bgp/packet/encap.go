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

// encap.go
package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

// EncapSubTLV is one sub-TLV of the RFC 5512 tunnel encapsulation
// attribute. The value is opaque to the engine.
type EncapSubTLV struct {
	Type  uint8
	Value []byte
}

func (s *EncapSubTLV) Clone() EncapSubTLV {
	x := EncapSubTLV{Type: s.Type, Value: make([]byte, len(s.Value))}
	copy(x.Value, s.Value)
	return x
}

func (s *EncapSubTLV) TotalLen() int {
	return len(s.Value) + 2
}

func (s *EncapSubTLV) Equal(other *EncapSubTLV) bool {
	return s.Type == other.Type && bytes.Equal(s.Value, other.Value)
}

func CloneEncapSubTLVs(subTLVs []EncapSubTLV) []EncapSubTLV {
	if subTLVs == nil {
		return nil
	}
	x := make([]EncapSubTLV, len(subTLVs))
	for i := range subTLVs {
		x[i] = subTLVs[i].Clone()
	}
	return x
}

// EncapSubTLVsEqual compares two sub-TLV chains by two-way containment, so
// ordering differences do not break attribute sharing.
func EncapSubTLVsEqual(a, b []EncapSubTLV) bool {
	return encapContains(a, b) && encapContains(b, a)
}

func encapContains(outer, inner []EncapSubTLV) bool {
	for i := range inner {
		found := false
		for j := range outer {
			if inner[i].Equal(&outer[j]) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type BGPPathAttrEncap struct {
	BGPPathAttrBase
	TunnelType uint16
	SubTLVs    []EncapSubTLV
}

func (e *BGPPathAttrEncap) Clone() BGPPathAttr {
	x := *e
	x.BGPPathAttrBase = e.BGPPathAttrBase.Clone()
	x.SubTLVs = CloneEncapSubTLVs(e.SubTLVs)
	return &x
}

func (e *BGPPathAttrEncap) Encode() ([]byte, error) {
	pkt, err := e.BGPPathAttrBase.Encode()
	if err != nil {
		return pkt, err
	}

	idx := int(e.BGPPathAttrLen)
	binary.BigEndian.PutUint16(pkt[idx:], e.TunnelType)
	binary.BigEndian.PutUint16(pkt[idx+2:], uint16(int(e.Length)-4))
	idx += 4
	for _, subTLV := range e.SubTLVs {
		pkt[idx] = subTLV.Type
		pkt[idx+1] = uint8(len(subTLV.Value))
		copy(pkt[idx+2:], subTLV.Value)
		idx += subTLV.TotalLen()
	}
	return pkt, nil
}

func (e *BGPPathAttrEncap) Decode(pkt []byte, data interface{}) error {
	err := e.BGPPathAttrBase.Decode(pkt, data)
	if err != nil {
		return err
	}

	if e.Length < 4 {
		return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:e.TotalLen()],
			fmt.Sprintf("ENCAP attribute too short, length %d", e.Length)}
	}

	idx := uint32(e.BGPPathAttrLen)
	e.TunnelType = binary.BigEndian.Uint16(pkt[idx:])
	tlvLen := binary.BigEndian.Uint16(pkt[idx+2:])
	if uint32(tlvLen) != uint32(e.Length)-4 {
		utils.Logger.Warningf("ENCAP tunnel TLV length %d disagrees with attribute length %d", tlvLen, e.Length)
	}
	idx += 4

	e.SubTLVs = make([]EncapSubTLV, 0)
	for idx < e.TotalLen() {
		if e.TotalLen()-idx < 2 {
			return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:e.TotalLen()],
				"ENCAP sub-TLV header is truncated"}
		}
		subType := pkt[idx]
		subLen := uint32(pkt[idx+1])
		idx += 2
		if idx+subLen > e.TotalLen() {
			return BGPMessageError{BGPUpdateMsgError, BGPOptionalAttrError, pkt[:e.TotalLen()],
				fmt.Sprintf("ENCAP sub-TLV type %d length %d overruns the attribute", subType, subLen)}
		}
		value := make([]byte, subLen)
		copy(value, pkt[idx:idx+subLen])
		e.SubTLVs = append(e.SubTLVs, EncapSubTLV{Type: subType, Value: value})
		idx += subLen
	}
	return nil
}

func (e *BGPPathAttrEncap) New() BGPPathAttr {
	return &BGPPathAttrEncap{}
}

func (e *BGPPathAttrEncap) String() string {
	return fmt.Sprintf("{ENCAP tunnel %d subTLVs %d}", e.TunnelType, len(e.SubTLVs))
}

// NewBGPPathAttrEncap builds the attribute from a tunnel type and sub-TLV
// chain. It returns nil when the serialized form would not fit the 16-bit
// attribute length.
func NewBGPPathAttrEncap(tunnelType uint16, subTLVs []EncapSubTLV) *BGPPathAttrEncap {
	length := 4
	for i := range subTLVs {
		length += subTLVs[i].TotalLen()
	}
	if length > 0xFFFF {
		utils.Logger.Errf("ENCAP attribute for tunnel type %d is %d bytes, dropping it", tunnelType, length)
		return nil
	}

	attr := &BGPPathAttrEncap{
		BGPPathAttrBase: BGPPathAttrBase{
			Flags:          BGPPathAttrFlagOptional | BGPPathAttrFlagTransitive,
			Code:           BGPPathAttrTypeEncap,
			Length:         uint16(length),
			BGPPathAttrLen: 3,
		},
		TunnelType: tunnelType,
		SubTLVs:    subTLVs,
	}
	if attr.Length > 255 {
		attr.Flags |= BGPPathAttrFlagExtendedLen
		attr.BGPPathAttrLen = 4
	}
	return attr
}
