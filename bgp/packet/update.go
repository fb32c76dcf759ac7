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

// update.go
package packet

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
)

type BGPHeader struct {
	Marker [BGPHeaderMarkerLen]byte
	Length uint16
	Type   uint8
}

func NewBGPHeader() *BGPHeader {
	return &BGPHeader{}
}

func (header *BGPHeader) Clone() *BGPHeader {
	x := *header
	return &x
}

func (header *BGPHeader) Encode() ([]byte, error) {
	pkt := make([]byte, BGPMsgHeaderLen)
	for i := 0; i < BGPHeaderMarkerLen; i++ {
		pkt[i] = 0xff
	}
	binary.BigEndian.PutUint16(pkt[16:18], header.Length)
	pkt[18] = header.Type
	return pkt, nil
}

func (header *BGPHeader) Decode(pkt []byte) error {
	if len(pkt) < BGPMsgHeaderLen {
		return BGPMessageError{BGPMsgHeaderError, BGPBadMessageLen, nil, "Not enough data to decode the message header"}
	}

	copy(header.Marker[:], pkt[:BGPHeaderMarkerLen])
	header.Length = binary.BigEndian.Uint16(pkt[16:18])
	header.Type = pkt[18]

	if header.Length < BGPMsgHeaderLen || header.Length > BGPMsgMaxLen {
		lenBytes := make([]byte, 2)
		binary.BigEndian.PutUint16(lenBytes, header.Length)
		return BGPMessageError{BGPMsgHeaderError, BGPBadMessageLen, lenBytes,
			fmt.Sprintf("Bad message length %d", header.Length)}
	}

	if header.Type < BGPMsgTypeOpen || header.Type > BGPMsgTypeKeepAlive {
		return BGPMessageError{BGPMsgHeaderError, BGPBadMessageType, []byte{header.Type},
			fmt.Sprintf("Bad message type %d", header.Type)}
	}
	return nil
}

func (header *BGPHeader) Len() uint32 {
	return uint32(header.Length)
}

type BGPBody interface {
	Clone() BGPBody
	Encode() ([]byte, error)
	Decode(*BGPHeader, []byte, interface{}) error
}

type NLRI interface {
	Clone() NLRI
	Encode(AFI) ([]byte, error)
	Decode([]byte, AFI) error
	Len() uint32
	GetIPPrefix() *IPPrefix
	GetPrefix() net.IP
	GetLength() uint8
	GetCIDR() string
	String() string
}

type IPPrefix struct {
	Length uint8
	Prefix net.IP
}

func (ip *IPPrefix) Clone() NLRI {
	x := *ip
	x.Prefix = make(net.IP, len(ip.Prefix), cap(ip.Prefix))
	copy(x.Prefix, ip.Prefix)
	return &x
}

func (ip *IPPrefix) Encode(afi AFI) ([]byte, error) {
	pkt := make([]byte, ip.Len())
	pkt[0] = ip.Length

	prefix := ip.Prefix
	if afi == AfiIP {
		if v4 := prefix.To4(); v4 != nil {
			prefix = v4
		}
	}
	copy(pkt[1:], prefix[:(ip.Length+7)/8])
	return pkt, nil
}

func (ip *IPPrefix) Decode(pkt []byte, afi AFI) error {
	if len(pkt) < 1 {
		return BGPMessageError{BGPUpdateMsgError, BGPInvalidNetworkField, nil, "NLRI does not contain a prefix length"}
	}

	ip.Length = pkt[0]
	if maxLen, ok := AFINextHopLenMap[afi]; ok && ip.Length > uint8(maxLen)*8 {
		return BGPMessageError{BGPUpdateMsgError, BGPInvalidNetworkField, nil,
			fmt.Sprintf("Prefix length %d is greater than the maximum %d", ip.Length, maxLen*8)}
	}

	bytes := (ip.Length + 7) / 8
	if len(pkt) < int(bytes)+1 {
		return BGPMessageError{BGPUpdateMsgError, BGPInvalidNetworkField, nil, "NLRI prefix is truncated"}
	}

	ipLen := net.IPv4len
	if afi == AfiIP6 || int(bytes) > ipLen {
		ipLen = net.IPv6len
	}
	ip.Prefix = make(net.IP, ipLen)
	copy(ip.Prefix, pkt[1:bytes+1])
	if bytes > 0 && ip.Length%8 > 0 {
		ip.Prefix[bytes-1] &= ^byte(0xff >> (ip.Length % 8))
	}
	return nil
}

func (ip *IPPrefix) Len() uint32 {
	return uint32(((ip.Length + 7) / 8) + 1)
}

func (ip *IPPrefix) GetIPPrefix() *IPPrefix {
	return ip
}

func (ip *IPPrefix) GetPrefix() net.IP {
	return ip.Prefix
}

func (ip *IPPrefix) GetLength() uint8 {
	return ip.Length
}

func (ip *IPPrefix) GetCIDR() string {
	return ip.Prefix.String() + "/" + strconv.Itoa(int(ip.Length))
}

func (ip *IPPrefix) String() string {
	return ip.GetCIDR()
}

func NewIPPrefix(prefix net.IP, length uint8) *IPPrefix {
	return &IPPrefix{
		Length: length,
		Prefix: prefix,
	}
}

func decodeNLRI(pkt []byte, prefixes *[]NLRI, length uint32, afi AFI) (uint32, error) {
	ptr := uint32(0)

	if length > uint32(len(pkt)) {
		return ptr, BGPMessageError{BGPUpdateMsgError, BGPInvalidNetworkField, nil, "NLRI section overruns the message"}
	}

	for ptr < length {
		ip := &IPPrefix{}
		err := ip.Decode(pkt[ptr:length], afi)
		if err != nil {
			return ptr, err
		}

		*prefixes = append(*prefixes, ip)
		ptr += ip.Len()
	}

	if ptr != length {
		return ptr, BGPMessageError{BGPUpdateMsgError, BGPInvalidNetworkField, pkt[:length], "NLRI prefixes do not cover the section"}
	}
	return ptr, nil
}

type BGPUpdate struct {
	WithdrawnRoutesLen uint16
	WithdrawnRoutes    []NLRI
	TotalPathAttrLen   uint16
	PathAttributes     []BGPPathAttr
	NLRI               []NLRI
	pathAttrData       []byte
}

func (msg *BGPUpdate) Clone() BGPBody {
	x := *msg
	x.WithdrawnRoutes = make([]NLRI, 0, cap(msg.WithdrawnRoutes))
	for i := 0; i < len(msg.WithdrawnRoutes); i++ {
		x.WithdrawnRoutes = append(x.WithdrawnRoutes, msg.WithdrawnRoutes[i].Clone())
	}

	x.PathAttributes = make([]BGPPathAttr, 0, cap(msg.PathAttributes))
	for i := 0; i < len(msg.PathAttributes); i++ {
		x.PathAttributes = append(x.PathAttributes, msg.PathAttributes[i].Clone())
	}

	x.NLRI = make([]NLRI, 0, cap(msg.NLRI))
	for i := 0; i < len(msg.NLRI); i++ {
		x.NLRI = append(x.NLRI, msg.NLRI[i].Clone())
	}

	x.pathAttrData = make([]byte, len(msg.pathAttrData))
	copy(x.pathAttrData, msg.pathAttrData)
	return &x
}

func (msg *BGPUpdate) Encode() ([]byte, error) {
	pkt := make([]byte, 2)

	for _, route := range msg.WithdrawnRoutes {
		bytes, err := route.Encode(AfiIP)
		if err != nil {
			return pkt, err
		}

		pkt = append(pkt, bytes...)
	}
	wdLen := len(pkt)
	binary.BigEndian.PutUint16(pkt, uint16(wdLen-2))

	pkt = append(pkt, make([]byte, 2)...)
	for _, pa := range msg.PathAttributes {
		bytes, err := pa.Encode()
		if err != nil {
			return pkt, err
		}

		pkt = append(pkt, bytes...)
	}
	paLen := len(pkt) - wdLen
	binary.BigEndian.PutUint16(pkt[wdLen:], uint16(paLen-2))

	for _, nlri := range msg.NLRI {
		bytes, err := nlri.Encode(AfiIP)
		if err != nil {
			return pkt, err
		}

		pkt = append(pkt, bytes...)
	}

	return pkt, nil
}

func (msg *BGPUpdate) Decode(header *BGPHeader, pkt []byte, data interface{}) error {
	if header.Len() < BGPUpdateMsgMinLen || len(pkt) < 4 {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedAttrList, nil, "Update message too short"}
	}

	msg.WithdrawnRoutesLen = binary.BigEndian.Uint16(pkt[0:2])

	ptr := uint32(2)
	var err error
	var ipLen uint32

	if uint32(msg.WithdrawnRoutesLen)+BGPUpdateMsgMinLen > header.Len() {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedAttrList, nil, "Withdrawn routes overrun the message"}
	}

	msg.WithdrawnRoutes = make([]NLRI, 0)
	ipLen, err = decodeNLRI(pkt[ptr:], &msg.WithdrawnRoutes, uint32(msg.WithdrawnRoutesLen), AfiIP)
	if err != nil {
		return err
	}
	ptr += ipLen

	msg.TotalPathAttrLen = binary.BigEndian.Uint16(pkt[ptr : ptr+2])
	ptr += 2

	length := int(msg.TotalPathAttrLen)
	if length+int(msg.WithdrawnRoutesLen)+int(BGPUpdateMsgMinLen) > int(header.Len()) {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedAttrList, nil, "Path attributes overrun the message"}
	}

	msg.pathAttrData = make([]byte, length)
	copy(msg.pathAttrData, pkt[ptr:ptr+uint32(length)])

	msg.PathAttributes = make([]BGPPathAttr, 0)
	for length > 0 {
		if length < 3 {
			return BGPMessageError{BGPUpdateMsgError, BGPAttrLenError, pkt[ptr:],
				"Path attribute header is truncated"}
		}
		pa := BGPGetPathAttr(BGPPathAttrType(pkt[ptr+1]))
		err = pa.Decode(pkt[ptr:], data)
		if err != nil {
			return err
		}
		msg.PathAttributes = append(msg.PathAttributes, pa)
		ptr += pa.TotalLen()
		length -= int(pa.TotalLen())
	}
	if length < 0 {
		return BGPMessageError{BGPUpdateMsgError, BGPMalformedAttrList, nil, "Path attributes overrun their section"}
	}

	msg.NLRI = make([]NLRI, 0)
	length = int(header.Len()) - int(BGPUpdateMsgMinLen) - int(msg.WithdrawnRoutesLen) - int(msg.TotalPathAttrLen)
	_, err = decodeNLRI(pkt[ptr:], &msg.NLRI, uint32(length), AfiIP)
	if err != nil {
		return err
	}
	return nil
}

// PathAttrData returns the raw path attribute section of a decoded update,
// the input ParsePathAttrs expects.
func (msg *BGPUpdate) PathAttrData() []byte {
	return msg.pathAttrData
}

func NewBGPUpdateMessage(wdRoutes []NLRI, pa []BGPPathAttr, nlri []NLRI) *BGPMessage {
	return &BGPMessage{
		Header: BGPHeader{Type: BGPMsgTypeUpdate},
		Body:   &BGPUpdate{WithdrawnRoutes: wdRoutes, PathAttributes: pa, NLRI: nlri},
	}
}

type BGPNotification struct {
	ErrorCode    uint8
	ErrorSubcode uint8
	Data         []byte
}

func (msg *BGPNotification) Clone() BGPBody {
	x := *msg
	x.Data = make([]byte, len(msg.Data), cap(msg.Data))
	copy(x.Data, msg.Data)
	return &x
}

func (msg *BGPNotification) Encode() ([]byte, error) {
	pkt := make([]byte, 2)
	pkt[0] = msg.ErrorCode
	pkt[1] = msg.ErrorSubcode
	pkt = append(pkt, msg.Data...)
	return pkt, nil
}

func (msg *BGPNotification) Decode(header *BGPHeader, pkt []byte, data interface{}) error {
	if len(pkt) < 2 {
		return BGPMessageError{BGPMsgHeaderError, BGPBadMessageLen, nil, "Notification message too short"}
	}
	msg.ErrorCode = pkt[0]
	msg.ErrorSubcode = pkt[1]
	if len(pkt) > 2 {
		msg.Data = pkt[2:]
	}
	return nil
}

// NewBGPNotificationMessage builds the NOTIFICATION the session layer sends
// when attribute parsing returns a hard error.
func NewBGPNotificationMessage(msgErr BGPMessageError) *BGPMessage {
	return &BGPMessage{
		Header: BGPHeader{Length: 21 + uint16(len(msgErr.Data)), Type: BGPMsgTypeNotification},
		Body:   &BGPNotification{msgErr.TypeCode, msgErr.SubTypeCode, msgErr.Data},
	}
}

type BGPMessage struct {
	Header BGPHeader
	Body   BGPBody
}

func NewBGPMessage() *BGPMessage {
	return &BGPMessage{}
}

func (msg *BGPMessage) Clone() *BGPMessage {
	x := *msg
	x.Header = *msg.Header.Clone()
	x.Body = msg.Body.Clone()
	return &x
}

func (msg *BGPMessage) Encode() ([]byte, error) {
	body, err := msg.Body.Encode()
	if err != nil {
		return nil, err
	}

	if msg.Header.Length == 0 {
		if BGPMsgHeaderLen+len(body) > BGPMsgMaxLen {
			return nil, BGPMessageError{BGPMsgHeaderError, BGPBadMessageLen, nil,
				fmt.Sprintf("BGP message is %d bytes long", BGPMsgHeaderLen+len(body))}
		}
		msg.Header.Length = uint16(BGPMsgHeaderLen + len(body))
	}

	header, err := msg.Header.Encode()
	if err != nil {
		return nil, err
	}
	return append(header, body...), nil
}

func (msg *BGPMessage) Decode(header *BGPHeader, pkt []byte, data interface{}) error {
	msg.Header = *header
	switch header.Type {
	case BGPMsgTypeUpdate:
		msg.Body = &BGPUpdate{}

	case BGPMsgTypeNotification:
		msg.Body = &BGPNotification{}

	default:
		return nil
	}
	return msg.Body.Decode(header, pkt, data)
}
