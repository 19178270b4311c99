// Command znpctl is a small demonstration CLI for the mediator: it dials
// a network-attached ZNP transport (a serial-to-TCP bridge such as
// ser2net, since no direct serial port library was available to ground
// this on) and issues a handful of SYS/ZDO/AF commands through
// commands.Sys/commands.Zdo/commands.Af.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xx25/go-znp"
	"github.com/xx25/go-znp/commands"
	"github.com/xx25/go-znp/internal/rawframe"
)

var addr string

var rootCmd = &cobra.Command{
	Use:   "znpctl",
	Short: "Talk to a Zigbee Network Processor over a TCP-bridged serial link",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "localhost:5900", "host:port of the serial-to-TCP bridge")
	rootCmd.AddCommand(resetCmd, permitJoinCmd, sendCmd, nvWriteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// dial opens the TCP transport and wraps it in the mediator, returning a
// teardown func that closes both.
func dial(ctx context.Context) (*znp.Mediator, func(), error) {
	logger, _ := zap.NewProduction()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	raw := rawframe.New(conn, logger)
	m := znp.NewMediator(raw, &znp.Config{Logger: logger})

	teardown := func() {
		_ = m.Close()
		_ = raw.Close()
		_ = conn.Close()
		_ = logger.Sync()
	}
	return m, teardown, nil
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Issue a SYS_RESET_REQ and print the device's reset info",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		m, teardown, err := dial(ctx)
		if err != nil {
			return err
		}
		defer teardown()

		resetInfo := make(chan znp.ResetInfo, 1)
		unsub := m.OnSysReset(func(info znp.ResetInfo, _ znp.Unsubscribe) {
			select {
			case resetInfo <- info:
			default:
			}
		})
		defer unsub()

		sys := commands.NewSys(m)
		const resetTypeSerialBootloader = 0x00
		if err := sys.Reset(ctx, resetTypeSerialBootloader); err != nil {
			return err
		}

		select {
		case info := <-resetInfo:
			fmt.Printf("reset ok: product=%d major=%d minor=%d hw=%d\n",
				info.ProductID, info.MajorRel, info.MinorRel, info.HwRev)
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	},
}

var permitJoinDuration int

var permitJoinCmd = &cobra.Command{
	Use:   "permit-join",
	Short: "Open network joining for the given duration in seconds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		m, teardown, err := dial(ctx)
		if err != nil {
			return err
		}
		defer teardown()

		zdo := commands.NewZdo(m)
		const broadcastAllRoutersAndCoordinator = znp.ShortAddr(0xFFFC)
		if err := zdo.PermitJoin(ctx, broadcastAllRoutersAndCoordinator, byte(permitJoinDuration)); err != nil {
			return err
		}
		fmt.Printf("permit join open for %ds\n", permitJoinDuration)
		return nil
	},
}

func init() {
	permitJoinCmd.Flags().IntVar(&permitJoinDuration, "seconds", 60, "join window duration in seconds (0 closes it, 255 is permanent)")
}

var (
	sendDstAddr   uint16
	sendEndpoint  uint8
	sendSrcEP     uint8
	sendClusterID uint16
	sendTransID   uint8
	sendPayload   string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an AF data request and wait for its DATA_CONFIRM",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		m, teardown, err := dial(ctx)
		if err != nil {
			return err
		}
		defer teardown()

		af := commands.NewAf(m)
		result, err := af.DataRequest(ctx,
			znp.ShortAddr(sendDstAddr), sendEndpoint, sendSrcEP, sendClusterID, sendTransID,
			commands.DataOptionsAckRequest, 0x0F, []byte(sendPayload), 5*time.Second)
		if err != nil {
			return err
		}
		fmt.Printf("data confirm status=0x%02x\n", result.Status)
		return nil
	},
}

func init() {
	sendCmd.Flags().Uint16Var(&sendDstAddr, "dst", 0x0000, "destination short address")
	sendCmd.Flags().Uint8Var(&sendEndpoint, "dst-endpoint", 1, "destination endpoint")
	sendCmd.Flags().Uint8Var(&sendSrcEP, "src-endpoint", 1, "source endpoint")
	sendCmd.Flags().Uint16Var(&sendClusterID, "cluster", 0x0000, "cluster id")
	sendCmd.Flags().Uint8Var(&sendTransID, "trans-id", 1, "transaction id for correlating the confirm")
	sendCmd.Flags().StringVar(&sendPayload, "data", "", "payload bytes, interpreted as raw string")
}

var (
	nvItemID uint16
	nvOffset uint8
	nvValue  string
)

var nvWriteCmd = &cobra.Command{
	Use:   "nv-write",
	Short: "Write an NV item via SYS_OSAL_NV_WRITE",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		m, teardown, err := dial(ctx)
		if err != nil {
			return err
		}
		defer teardown()

		sys := commands.NewSys(m)
		if err := sys.OsalNvWrite(ctx, nvItemID, nvOffset, []byte(nvValue)); err != nil {
			return err
		}
		fmt.Println("nv write ok")
		return nil
	},
}

func init() {
	nvWriteCmd.Flags().Uint16Var(&nvItemID, "item", 0, "NV item id")
	nvWriteCmd.Flags().Uint8Var(&nvOffset, "offset", 0, "byte offset within the item")
	nvWriteCmd.Flags().StringVar(&nvValue, "value", "", "value bytes, interpreted as raw string")
}
