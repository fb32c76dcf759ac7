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

// bgpattrdump decodes BGP messages from capture files and dumps the path
// attribute section of each UPDATE the way the engine sees it, including
// the malformed attribute disposition.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HikaruDY/quagga-sub000/bgp/packet"
	"github.com/HikaruDY/quagga-sub000/bgp/utils"
)

var (
	asSize         uint8
	peerType       string
	localAS        string
	remoteAS       string
	enforceFirstAS bool
	allowMartian   bool
	hexInput       bool
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   "bgpattrdump [flags] <file>...",
	Short: "Decode BGP UPDATE messages and dump their path attributes",
	Long: `bgpattrdump reads raw BGP messages from the given files, decodes each
UPDATE's path attribute section with the configured peer settings and
prints the resulting attribute record, the multiprotocol NLRI and the
disposition the engine would apply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().Uint8Var(&asSize, "as-size", 4, "peer AS number size, 2 or 4")
	rootCmd.Flags().StringVar(&peerType, "peer-type", "ebgp", "peer type: ebgp, ibgp or confed")
	rootCmd.Flags().StringVar(&localAS, "local-as", "", "local AS number, asplain or asdot")
	rootCmd.Flags().StringVar(&remoteAS, "remote-as", "", "peer AS number, asplain or asdot")
	rootCmd.Flags().BoolVar(&enforceFirstAS, "enforce-first-as", false,
		"require the AS path to start with the peer AS")
	rootCmd.Flags().BoolVar(&allowMartian, "allow-martian-nexthop", false,
		"accept martian NEXT_HOP addresses")
	rootCmd.Flags().BoolVar(&hexInput, "hex", false, "input files hold hex text instead of raw bytes")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	utils.SetLogger(utils.NewLogger("bgpattrdump", debug))
	defer utils.Logger.Sync()

	peerAttrs, err := buildPeerAttrs()
	if err != nil {
		return err
	}

	tables := packet.NewAttrTables()
	defer tables.Shutdown()

	for _, path := range args {
		if err := dumpFile(path, peerAttrs, tables); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func buildPeerAttrs() (packet.BGPPeerAttrs, error) {
	peerAttrs := packet.BGPPeerAttrs{
		ASSize:              asSize,
		EnforceFirstAS:      enforceFirstAS,
		AllowMartianNextHop: allowMartian,
	}

	if asSize != 2 && asSize != 4 {
		return peerAttrs, fmt.Errorf("as-size must be 2 or 4, got %d", asSize)
	}

	switch peerType {
	case "ebgp":
		peerAttrs.PeerType = packet.PeerTypeEBGP
	case "ibgp":
		peerAttrs.PeerType = packet.PeerTypeIBGP
	case "confed":
		peerAttrs.PeerType = packet.PeerTypeConfedMember
	default:
		return peerAttrs, fmt.Errorf("unknown peer type %q", peerType)
	}

	if localAS != "" {
		asNum, err := utils.GetAsNum(localAS)
		if err != nil {
			return peerAttrs, err
		}
		peerAttrs.LocalAS = uint32(asNum)
	}
	if remoteAS != "" {
		asNum, err := utils.GetAsNum(remoteAS)
		if err != nil {
			return peerAttrs, err
		}
		peerAttrs.RemoteAS = uint32(asNum)
	}
	return peerAttrs, nil
}

func dumpFile(path string, peerAttrs packet.BGPPeerAttrs, tables *packet.AttrTables) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if hexInput {
		fields := strings.Fields(string(data))
		data, err = hex.DecodeString(strings.Join(fields, ""))
		if err != nil {
			return fmt.Errorf("bad hex input: %w", err)
		}
	}

	msgIdx := 0
	for len(data) > 0 {
		var header packet.BGPHeader
		if err := header.Decode(data); err != nil {
			return err
		}
		msgLen := header.Len()
		if uint32(len(data)) < msgLen {
			return fmt.Errorf("message %d is truncated, header says %d bytes but %d remain",
				msgIdx, msgLen, len(data))
		}

		msg := packet.NewBGPMessage()
		if err := msg.Decode(&header, data[packet.BGPMsgHeaderLen:msgLen], peerAttrs); err != nil {
			return err
		}

		fmt.Printf("%s: message %d, type %d, %d bytes\n", path, msgIdx, header.Type, msgLen)
		switch body := msg.Body.(type) {
		case *packet.BGPUpdate:
			dumpUpdate(body, peerAttrs, tables)
		case *packet.BGPNotification:
			fmt.Printf("  notification %d:%d data %x\n", body.ErrorCode, body.ErrorSubcode, body.Data)
		}

		data = data[msgLen:]
		msgIdx++
	}
	return nil
}

func dumpUpdate(update *packet.BGPUpdate, peerAttrs packet.BGPPeerAttrs, tables *packet.AttrTables) {
	for _, nlri := range update.WithdrawnRoutes {
		fmt.Printf("  withdrawn %s\n", nlri.GetCIDR())
	}

	rec, mpInfo, result, msgErr := packet.ParsePathAttrs(update.PathAttrData(), peerAttrs, tables)
	fmt.Printf("  disposition %s\n", result)
	if msgErr != nil {
		fmt.Printf("  notification %d:%d %s\n", msgErr.TypeCode, msgErr.SubTypeCode, msgErr.Message)
		return
	}

	fmt.Printf("  attrs %s\n", rec)
	if mpInfo.Reach != nil {
		for _, nlri := range mpInfo.Reach.NLRI {
			fmt.Printf("  mp reach %d/%d %s\n", mpInfo.Reach.AFI, mpInfo.Reach.SAFI, nlri.GetCIDR())
		}
		if len(mpInfo.Reach.NLRIData) > 0 {
			fmt.Printf("  mp reach %d/%d raw nlri %x\n", mpInfo.Reach.AFI, mpInfo.Reach.SAFI,
				mpInfo.Reach.NLRIData)
		}
	}
	if mpInfo.Unreach != nil {
		for _, nlri := range mpInfo.Unreach.NLRI {
			fmt.Printf("  mp unreach %d/%d %s\n", mpInfo.Unreach.AFI, mpInfo.Unreach.SAFI, nlri.GetCIDR())
		}
	}
	for _, nlri := range update.NLRI {
		fmt.Printf("  nlri %s\n", nlri.GetCIDR())
	}
}
