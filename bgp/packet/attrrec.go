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

// attrrec.go
package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"

	farm "github.com/dgryski/go-farm"

	"github.com/HikaruDY/quagga-sub000/bgp/intern"
)

const (
	BGPAttrDefaultWeight   uint32 = 32768
	BGPAttrDefaultPriority uint32 = 32768
)

// AttrFlagBit is the presence bitmap bit for an attribute type code.
func AttrFlagBit(typeCode BGPPathAttrType) uint32 {
	return 1 << (uint(typeCode) - 1)
}

// ClusterList is the interned form of the CLUSTER_LIST attribute value.
type ClusterList struct {
	List []uint32
}

func NewClusterList(list []uint32) *ClusterList {
	return &ClusterList{List: list}
}

func (c *ClusterList) Clone() *ClusterList {
	x := &ClusterList{List: make([]uint32, len(c.List))}
	copy(x.List, c.List)
	return x
}

func (c *ClusterList) Contains(id uint32) bool {
	for _, item := range c.List {
		if item == id {
			return true
		}
	}
	return false
}

func (c *ClusterList) HashKey() uint32 {
	buf := make([]byte, 4*len(c.List))
	for i, id := range c.List {
		binary.BigEndian.PutUint32(buf[i*4:], id)
	}
	return farm.Fingerprint32(buf)
}

func (c *ClusterList) Equal(val intern.Value) bool {
	other, ok := val.(*ClusterList)
	if !ok || len(c.List) != len(other.List) {
		return false
	}
	for i := range c.List {
		if c.List[i] != other.List[i] {
			return false
		}
	}
	return true
}

// Transit holds the raw bytes of unrecognized optional transitive
// attributes, header included, with the Partial bit already set. The blob
// is re-emitted verbatim on encode.
type Transit struct {
	Value []byte
}

func NewTransit(value []byte) *Transit {
	return &Transit{Value: value}
}

func (t *Transit) Clone() *Transit {
	x := &Transit{Value: make([]byte, len(t.Value))}
	copy(x.Value, t.Value)
	return x
}

func (t *Transit) HashKey() uint32 {
	return farm.Fingerprint32(t.Value)
}

func (t *Transit) Equal(val intern.Value) bool {
	other, ok := val.(*Transit)
	return ok && bytes.Equal(t.Value, other.Value)
}

// AttrExtra carries the less common attribute fields so that routes with
// only the core attributes stay small.
type AttrExtra struct {
	MPNextHopGlobal   net.IP
	MPNextHopLocal    net.IP
	MPNextHopGlobalIn net.IP
	MPNextHopLen      uint8
	ExtCommunity      *ExtCommunitySet
	LargeCommunity    *LargeCommunitySet
	Cluster           *ClusterList
	Transit           *Transit
	AggregatorAddr    net.IP
	OriginatorId      net.IP
	Weight            uint32
	Priority          uint32
	AggregatorAS      uint32
	EncapTunnelType   uint16
	EncapSubTLVs      []EncapSubTLV
}

func NewAttrExtra() *AttrExtra {
	return &AttrExtra{
		Weight:   BGPAttrDefaultWeight,
		Priority: BGPAttrDefaultPriority,
	}
}

func (e *AttrExtra) Clone() *AttrExtra {
	x := *e
	x.MPNextHopGlobal = cloneIP(e.MPNextHopGlobal)
	x.MPNextHopLocal = cloneIP(e.MPNextHopLocal)
	x.MPNextHopGlobalIn = cloneIP(e.MPNextHopGlobalIn)
	x.AggregatorAddr = cloneIP(e.AggregatorAddr)
	x.OriginatorId = cloneIP(e.OriginatorId)
	if e.Transit != nil {
		x.Transit = e.Transit.Clone()
	}
	x.EncapSubTLVs = CloneEncapSubTLVs(e.EncapSubTLVs)
	return &x
}

func cloneIP(ip net.IP) net.IP {
	if ip == nil {
		return nil
	}
	x := make(net.IP, len(ip))
	copy(x, ip)
	return x
}

func ipsEqual(a, b net.IP) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func (e *AttrExtra) serializeForHash() []byte {
	buf := make([]byte, 0, 96)
	scratch := make([]byte, 4)

	buf = append(buf, e.MPNextHopGlobal...)
	buf = append(buf, e.MPNextHopLocal...)
	buf = append(buf, e.MPNextHopLen)
	buf = append(buf, e.AggregatorAddr...)
	buf = append(buf, e.OriginatorId...)
	for _, val := range []uint32{e.Weight, e.Priority, e.AggregatorAS, uint32(e.EncapTunnelType)} {
		binary.BigEndian.PutUint32(scratch, val)
		buf = append(buf, scratch...)
	}
	subHashes := [4]uint32{}
	if e.ExtCommunity != nil {
		subHashes[0] = e.ExtCommunity.HashKey()
	}
	if e.LargeCommunity != nil {
		subHashes[1] = e.LargeCommunity.HashKey()
	}
	if e.Cluster != nil {
		subHashes[2] = e.Cluster.HashKey()
	}
	if e.Transit != nil {
		subHashes[3] = e.Transit.HashKey()
	}
	for _, hash := range subHashes {
		binary.BigEndian.PutUint32(scratch, hash)
		buf = append(buf, scratch...)
	}
	for i := range e.EncapSubTLVs {
		buf = append(buf, e.EncapSubTLVs[i].Type)
		buf = append(buf, e.EncapSubTLVs[i].Value...)
	}
	return buf
}

func (e *AttrExtra) Equal(other *AttrExtra) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	if !ipsEqual(e.MPNextHopGlobal, other.MPNextHopGlobal) ||
		!ipsEqual(e.MPNextHopLocal, other.MPNextHopLocal) ||
		e.MPNextHopLen != other.MPNextHopLen ||
		!ipsEqual(e.AggregatorAddr, other.AggregatorAddr) ||
		!ipsEqual(e.OriginatorId, other.OriginatorId) ||
		e.Weight != other.Weight ||
		e.Priority != other.Priority ||
		e.AggregatorAS != other.AggregatorAS ||
		e.EncapTunnelType != other.EncapTunnelType {
		return false
	}
	if (e.ExtCommunity == nil) != (other.ExtCommunity == nil) ||
		(e.ExtCommunity != nil && !e.ExtCommunity.Equal(other.ExtCommunity)) {
		return false
	}
	if (e.LargeCommunity == nil) != (other.LargeCommunity == nil) ||
		(e.LargeCommunity != nil && !e.LargeCommunity.Equal(other.LargeCommunity)) {
		return false
	}
	if (e.Cluster == nil) != (other.Cluster == nil) ||
		(e.Cluster != nil && !e.Cluster.Equal(other.Cluster)) {
		return false
	}
	if (e.Transit == nil) != (other.Transit == nil) ||
		(e.Transit != nil && !e.Transit.Equal(other.Transit)) {
		return false
	}
	return EncapSubTLVsEqual(e.EncapSubTLVs, other.EncapSubTLVs)
}

// AttrRecord is the interned bundle of path attributes shared across
// routes. Flag is the presence bitmap keyed by AttrFlagBit.
type AttrRecord struct {
	ASPath    *BGPPathAttrASPath
	Community *CommunitySet
	Extra     *AttrExtra
	Flag      uint32
	NextHop   net.IP
	MED       uint32
	LocalPref uint32
	Origin    BGPPathAttrOriginType
}

func NewAttrRecord() *AttrRecord {
	return &AttrRecord{}
}

// NewDefaultAttrRecord builds the template record for a locally originated
// route with the given origin, an empty AS path and the default weight.
func NewDefaultAttrRecord(origin BGPPathAttrOriginType) *AttrRecord {
	rec := NewAttrRecord()
	rec.Origin = origin
	rec.SetAttr(BGPPathAttrTypeOrigin)
	rec.ASPath = NewBGPPathAttrASPath()
	rec.SetAttr(BGPPathAttrTypeASPath)
	rec.GetExtra()
	return rec
}

// NewAggregateAttrRecord builds the record for a locally generated
// aggregate and interns it when tables is non-nil.
func NewAggregateAttrRecord(tables *AttrTables, origin BGPPathAttrOriginType,
	asPath *BGPPathAttrASPath, comms *CommunitySet, aggAS uint32, aggAddr net.IP,
	atomic bool) *AttrRecord {
	rec := NewDefaultAttrRecord(origin)
	if asPath != nil {
		rec.ASPath = asPath
	}
	if comms != nil {
		rec.Community = comms
		rec.SetAttr(BGPPathAttrTypeCommunities)
	}
	if atomic {
		rec.SetAttr(BGPPathAttrTypeAtomicAggregate)
	}
	extra := rec.GetExtra()
	extra.AggregatorAS = aggAS
	extra.AggregatorAddr = cloneIP(aggAddr)
	rec.SetAttr(BGPPathAttrTypeAggregator)
	if tables != nil {
		return tables.InternAttr(rec)
	}
	return rec
}

func (r *AttrRecord) HasAttr(typeCode BGPPathAttrType) bool {
	return r.Flag&AttrFlagBit(typeCode) != 0
}

func (r *AttrRecord) SetAttr(typeCode BGPPathAttrType) {
	r.Flag |= AttrFlagBit(typeCode)
}

func (r *AttrRecord) ClearAttr(typeCode BGPPathAttrType) {
	r.Flag &^= AttrFlagBit(typeCode)
}

// GetExtra returns the extra block, allocating it on first use.
func (r *AttrRecord) GetExtra() *AttrExtra {
	if r.Extra == nil {
		r.Extra = NewAttrExtra()
	}
	return r.Extra
}

func (r *AttrRecord) Clone() *AttrRecord {
	x := *r
	if r.ASPath != nil {
		x.ASPath = r.ASPath.CloneASPath()
	}
	if r.Community != nil {
		x.Community = r.Community.Clone()
	}
	if r.Extra != nil {
		x.Extra = r.Extra.Clone()
	}
	x.NextHop = cloneIP(r.NextHop)
	return &x
}

func (r *AttrRecord) HashKey() uint32 {
	buf := make([]byte, 0, 64)
	scratch := make([]byte, 4)

	for _, val := range []uint32{r.Flag, r.MED, r.LocalPref, uint32(r.Origin)} {
		binary.BigEndian.PutUint32(scratch, val)
		buf = append(buf, scratch...)
	}
	buf = append(buf, r.NextHop...)
	if r.ASPath != nil {
		binary.BigEndian.PutUint32(scratch, r.ASPath.HashKey())
		buf = append(buf, scratch...)
	}
	if r.Community != nil {
		binary.BigEndian.PutUint32(scratch, r.Community.HashKey())
		buf = append(buf, scratch...)
	}
	if r.Extra != nil {
		buf = append(buf, r.Extra.serializeForHash()...)
	}
	return farm.Fingerprint32(buf)
}

func (r *AttrRecord) Equal(val intern.Value) bool {
	other, ok := val.(*AttrRecord)
	if !ok {
		return false
	}
	if r.Flag != other.Flag || r.MED != other.MED || r.LocalPref != other.LocalPref ||
		r.Origin != other.Origin || !ipsEqual(r.NextHop, other.NextHop) {
		return false
	}
	if (r.ASPath == nil) != (other.ASPath == nil) ||
		(r.ASPath != nil && !r.ASPath.Equal(other.ASPath)) {
		return false
	}
	if (r.Community == nil) != (other.Community == nil) ||
		(r.Community != nil && !r.Community.Equal(other.Community)) {
		return false
	}
	if (r.Extra == nil) != (other.Extra == nil) {
		return false
	}
	if r.Extra != nil && !r.Extra.Equal(other.Extra) {
		return false
	}
	return true
}

func (r *AttrRecord) String() string {
	return fmt.Sprintf("{ATTR flag 0x%x origin %v aspath %v nexthop %v med %d localpref %d}",
		r.Flag, r.Origin, r.ASPath, r.NextHop, r.MED, r.LocalPref)
}

// internClone copies the record for table ownership. The sub-object
// pointers are already canonical when this runs, so they are kept as is;
// only the fields the caller may still mutate are copied.
func (r *AttrRecord) internClone() *AttrRecord {
	x := *r
	x.NextHop = cloneIP(r.NextHop)
	if r.Extra != nil {
		e := *r.Extra
		e.MPNextHopGlobal = cloneIP(e.MPNextHopGlobal)
		e.MPNextHopLocal = cloneIP(e.MPNextHopLocal)
		e.MPNextHopGlobalIn = cloneIP(e.MPNextHopGlobalIn)
		e.AggregatorAddr = cloneIP(e.AggregatorAddr)
		e.OriginatorId = cloneIP(e.OriginatorId)
		e.EncapSubTLVs = CloneEncapSubTLVs(e.EncapSubTLVs)
		x.Extra = &e
	}
	return &x
}

// AttrTables is the set of intern tables for attribute records and their
// shared sub-objects.
type AttrTables struct {
	ASPath         *intern.Table
	Community      *intern.Table
	ExtCommunity   *intern.Table
	LargeCommunity *intern.Table
	Cluster        *intern.Table
	Transit        *intern.Table
	Attr           *intern.Table
}

func NewAttrTables() *AttrTables {
	return &AttrTables{
		ASPath: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*BGPPathAttrASPath).CloneASPath()
		}),
		Community: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*CommunitySet).Clone()
		}),
		ExtCommunity: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*ExtCommunitySet).Clone()
		}),
		LargeCommunity: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*LargeCommunitySet).Clone()
		}),
		Cluster: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*ClusterList).Clone()
		}),
		Transit: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*Transit).Clone()
		}),
		Attr: intern.NewTable(func(val intern.Value) intern.Value {
			return val.(*AttrRecord).internClone()
		}),
	}
}

// InternAttr interns the record's sub-objects and then the record itself,
// returning the canonical instance. The candidate record is rewritten to
// point at the canonical sub-objects before the record level lookup so
// that equal records hash identically.
func (t *AttrTables) InternAttr(rec *AttrRecord) *AttrRecord {
	if rec.ASPath != nil {
		rec.ASPath = t.ASPath.Intern(rec.ASPath).(*BGPPathAttrASPath)
	}
	if rec.Community != nil {
		rec.Community = t.Community.Intern(rec.Community).(*CommunitySet)
	}
	if rec.Extra != nil {
		if rec.Extra.ExtCommunity != nil {
			rec.Extra.ExtCommunity = t.ExtCommunity.Intern(rec.Extra.ExtCommunity).(*ExtCommunitySet)
		}
		if rec.Extra.LargeCommunity != nil {
			rec.Extra.LargeCommunity = t.LargeCommunity.Intern(rec.Extra.LargeCommunity).(*LargeCommunitySet)
		}
		if rec.Extra.Cluster != nil {
			rec.Extra.Cluster = t.Cluster.Intern(rec.Extra.Cluster).(*ClusterList)
		}
		if rec.Extra.Transit != nil {
			rec.Extra.Transit = t.Transit.Intern(rec.Extra.Transit).(*Transit)
		}
	}
	return t.Attr.Intern(rec).(*AttrRecord)
}

// UninternAttr drops one reference to the record and one reference to each
// of its sub-objects. InternAttr takes a sub-object reference on every call,
// including record level hits, so the drop must mirror that.
func (t *AttrTables) UninternAttr(rec *AttrRecord) {
	if rec.ASPath != nil {
		t.ASPath.Unintern(rec.ASPath)
	}
	if rec.Community != nil {
		t.Community.Unintern(rec.Community)
	}
	if rec.Extra != nil {
		if rec.Extra.ExtCommunity != nil {
			t.ExtCommunity.Unintern(rec.Extra.ExtCommunity)
		}
		if rec.Extra.LargeCommunity != nil {
			t.LargeCommunity.Unintern(rec.Extra.LargeCommunity)
		}
		if rec.Extra.Cluster != nil {
			t.Cluster.Unintern(rec.Extra.Cluster)
		}
		if rec.Extra.Transit != nil {
			t.Transit.Unintern(rec.Extra.Transit)
		}
	}
	t.Attr.Unintern(rec)
}

func (t *AttrTables) AttrCount() int {
	return t.Attr.Count()
}

// UnknownAttrCount reports how many distinct transit blobs of unrecognized
// transitive attributes are interned.
func (t *AttrTables) UnknownAttrCount() int {
	return t.Transit.Count()
}

func (t *AttrTables) Shutdown() {
	t.ASPath.Shutdown()
	t.Community.Shutdown()
	t.ExtCommunity.Shutdown()
	t.LargeCommunity.Shutdown()
	t.Cluster.Shutdown()
	t.Transit.Shutdown()
	t.Attr.Shutdown()
}
