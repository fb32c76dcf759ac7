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

// aspath.go
package packet

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"

	"github.com/HikaruDY/quagga-sub000/bgp/intern"
	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

// asSegmentToAS4 returns a 4-byte copy of any segment, widening 2-byte
// segments on the way.
func asSegmentToAS4(seg BGPASPathSegment) *BGPAS4PathSegment {
	switch s := seg.(type) {
	case *BGPAS4PathSegment:
		return s.CloneAsAS4PathSegment()
	case *BGPAS2PathSegment:
		return s.CloneAsAS4PathSegment()
	}
	return nil
}

func (as *BGPPathAttrASPath) serializeForHash() []byte {
	buf := make([]byte, 0, 64)
	asBytes := make([]byte, 4)
	for _, seg := range as.Value {
		seg4 := asSegmentToAS4(seg)
		buf = append(buf, uint8(seg4.Type), seg4.Length)
		for _, asNum := range seg4.AS {
			binary.BigEndian.PutUint32(asBytes, asNum)
			buf = append(buf, asBytes...)
		}
	}
	return buf
}

func (as *BGPPathAttrASPath) HashKey() uint32 {
	return farm.Fingerprint32(as.serializeForHash())
}

func (as *BGPPathAttrASPath) Equal(val intern.Value) bool {
	other, ok := val.(*BGPPathAttrASPath)
	if !ok {
		return false
	}
	if len(as.Value) != len(other.Value) {
		return false
	}
	for i := range as.Value {
		a := asSegmentToAS4(as.Value[i])
		b := asSegmentToAS4(other.Value[i])
		if a.Type != b.Type || len(a.AS) != len(b.AS) {
			return false
		}
		for j := range a.AS {
			if a.AS[j] != b.AS[j] {
				return false
			}
		}
	}
	return true
}

// NumHops is the RFC 4271 path length: sequences count per AS, a set
// counts as one, confed segments count as zero.
func (as *BGPPathAttrASPath) NumHops() uint32 {
	hops := uint32(0)
	for _, seg := range as.Value {
		hops += uint32(seg.GetNumASes())
	}
	return hops
}

func (as *BGPPathAttrASPath) HasAS4() bool {
	iter := NewASPathIter(as)
	for asNum, _, ok := iter.Next(); ok; asNum, _, ok = iter.Next() {
		if asNum > uint32(^uint16(0)) {
			return true
		}
	}
	return false
}

func (as *BGPPathAttrASPath) ContainsAS(asNum uint32) bool {
	iter := NewASPathIter(as)
	for val, _, ok := iter.Next(); ok; val, _, ok = iter.Next() {
		if val == asNum {
			return true
		}
	}
	return false
}

// FirstAS is the neighboring AS of the path, taken from the leading
// sequence or confed sequence segment. It is 0 when the path is empty or
// starts with a set.
func (as *BGPPathAttrASPath) FirstAS() uint32 {
	if len(as.Value) == 0 {
		return 0
	}
	seg := asSegmentToAS4(as.Value[0])
	if seg.Type != BGPASPathSegmentSequence && seg.Type != BGPASPathSegmentConfedSequence {
		return 0
	}
	if len(seg.AS) == 0 {
		return 0
	}
	return seg.AS[0]
}

func (as *BGPPathAttrASPath) HasConfedSegments() bool {
	for _, seg := range as.Value {
		segType := seg.GetType()
		if segType == BGPASPathSegmentConfedSequence || segType == BGPASPathSegmentConfedSet {
			return true
		}
	}
	return false
}

// CloneWithoutConfedSegments drops confed sequence and confed set segments
// from a copy of the path.
func (as *BGPPathAttrASPath) CloneWithoutConfedSegments() *BGPPathAttrASPath {
	x := NewBGPPathAttrASPath()
	x.ASSize = as.ASSize
	for _, seg := range as.Value {
		segType := seg.GetType()
		if segType == BGPASPathSegmentConfedSequence || segType == BGPASPathSegmentConfedSet {
			continue
		}
		x.AppendASPathSegment(seg.Clone())
	}
	return x
}

func (as *BGPPathAttrASPath) prependASOfType(asNum uint32, segType BGPASPathSegmentType) {
	if len(as.Value) > 0 {
		if seg, ok := as.Value[0].(*BGPAS4PathSegment); ok && seg.Type == segType {
			if seg.PrependAS(asNum) {
				as.BGPPathAttrBase.Length += 4
				return
			}
		}
	}

	seg := NewBGPAS4PathSegment(segType)
	seg.AppendAS(asNum)
	as.PrependASPathSegment(seg)
}

// PrependAS adds asNum to the front of the path, reusing the leading
// sequence segment when it has room.
func (as *BGPPathAttrASPath) PrependAS(asNum uint32) {
	as.prependASOfType(asNum, BGPASPathSegmentSequence)
}

// PrependConfedAS adds asNum to the front of the path inside a confed
// sequence segment.
func (as *BGPPathAttrASPath) PrependConfedAS(asNum uint32) {
	as.prependASOfType(asNum, BGPASPathSegmentConfedSequence)
}

// Convert4ByteTo2Byte builds the 2-byte wire form of the path for a peer
// without 4-byte AS capability. ASes above 65535 become AS_TRANS and the
// second return is false when that happened.
func (as *BGPPathAttrASPath) Convert4ByteTo2Byte() (*BGPPathAttrASPath, bool) {
	x := NewBGPPathAttrASPath()
	x.ASSize = 2
	mappable := true
	for _, seg := range as.Value {
		as2, ok := asSegmentToAS4(seg).CloneAsAS2PathSegment()
		if !ok {
			mappable = false
		}
		x.AppendASPathSegment(as2)
	}
	return x, mappable
}

// ToAS4Path copies the non-confed segments of the path into an AS4_PATH
// attribute for a 2-byte peer.
func (as *BGPPathAttrASPath) ToAS4Path() *BGPPathAttrAS4Path {
	as4Path := NewBGPPathAttrAS4Path()
	for _, seg := range as.Value {
		segType := seg.GetType()
		if segType == BGPASPathSegmentConfedSequence || segType == BGPASPathSegmentConfedSet {
			continue
		}
		as4Path.AddASPathSegment(asSegmentToAS4(seg))
	}
	return as4Path
}

// ReconcileWithAS4Path merges AS4_PATH into AS_PATH per RFC 6793: the
// leading hops(AS_PATH) minus hops(AS4_PATH) ASes of AS_PATH are kept and
// the AS4_PATH segments follow. When AS4_PATH claims more hops than
// AS_PATH it is ignored.
func (as *BGPPathAttrASPath) ReconcileWithAS4Path(as4Path *BGPPathAttrAS4Path) *BGPPathAttrASPath {
	as4Hops := 0
	for _, seg := range as4Path.Value {
		as4Hops += int(seg.GetNumASes())
	}

	asHops := int(as.NumHops())
	if as4Hops > asHops {
		utils.Logger.Warningf("AS4_PATH with %d hops is longer than AS_PATH with %d hops, ignoring it", as4Hops, asHops)
		return as.CloneASPath()
	}

	keep := asHops - as4Hops
	merged := NewBGPPathAttrASPath()
	for _, seg := range as.Value {
		if keep <= 0 {
			break
		}
		seg4 := asSegmentToAS4(seg)
		switch seg4.Type {
		case BGPASPathSegmentSequence:
			if len(seg4.AS) <= keep {
				merged.AppendASPathSegment(seg4)
				keep -= len(seg4.AS)
			} else {
				part := NewBGPAS4PathSegmentSeq()
				for i := 0; i < keep; i++ {
					part.AppendAS(seg4.AS[i])
				}
				merged.AppendASPathSegment(part)
				keep = 0
			}
		case BGPASPathSegmentSet:
			merged.AppendASPathSegment(seg4)
			keep--
		default:
			merged.AppendASPathSegment(seg4)
		}
	}
	for _, seg := range as4Path.Value {
		merged.AppendASPathSegment(seg.CloneAsAS4PathSegment())
	}
	return merged
}
