// Command shmhost-demo configures an in-process shared region through
// the façade, encodes one BPG packet and sends it into the host->outer
// data slot, decodes the encoded bytes locally as the outer side would,
// then dispatches a canned message through the plugin vector with
// TriggerTestCallback and pumps it to the message callback. It logs
// each stage, replacing the teacher's cmd/debug-capacity ring-capacity
// probe with a demo shaped around this repo's actual Channel/BPG
// surface. No outer side is attached, so the receive worker sees no
// traffic.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mdmtseng/bpgshm/internal/bpg"
	"github.com/mdmtseng/bpgshm/internal/hostapi"
	"github.com/mdmtseng/bpgshm/internal/hostlog"
)

func main() {
	r := flag.Int("r", 4096, "outer->host data capacity in bytes")
	n := flag.Int("n", 4096, "host->outer data capacity in bytes")
	meta := flag.String("meta", `{"kind":"demo"}`, "metadata string for the demo packet")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := hostlog.New()
	if *debug {
		log.EnableDebug()
	}

	log.Info("demo: configure shared region, round-trip one BPG packet group through the channel")

	api := hostapi.New(log)

	region := make([]byte, 16+*r+*n)
	if err := api.SetSharedBuffer(region, *r, *n, false); err != nil {
		log.Error("configure failed: %v", err)
		os.Exit(1)
	}
	defer api.Cleanup()

	received := make(chan []byte, 1)
	api.SetMessageCallback(func(b []byte) {
		received <- b
	})

	log.Info("--- encode ---")
	buf := make([]byte, *n)
	w := bpg.NewWriter(buf)
	pkt := bpg.AppPacket{
		GroupID:    7,
		TargetID:   3,
		Tag:        [2]byte{'T', 'X'},
		EndOfGroup: true,
		Meta:       *meta,
		Binary:     []byte{0x01, 0x02, 0x03},
	}
	if err := bpg.Encode(w, pkt); err != nil {
		log.Error("encode failed: %v", err)
		os.Exit(1)
	}
	log.Info("encoded %d bytes for group=%d target=%d tag=%s", w.Size(), pkt.GroupID, pkt.TargetID, string(pkt.Tag[:]))

	log.Info("--- send ---")
	if err := api.Send(w.Bytes(), 100); err != nil {
		log.Error("send failed: %v", err)
		os.Exit(1)
	}
	log.Info("committed to the host->outer data slot")

	log.Info("--- decode (outer side simulation) ---")
	dec := bpg.NewDecoder()
	err := dec.Process(w.Bytes(),
		func(p bpg.AppPacket) {
			fmt.Printf("  on_packet: group=%d target=%d tag=%s meta=%q binary=%v\n", p.GroupID, p.TargetID, string(p.Tag[:]), p.Meta, p.Binary)
		},
		func(gid uint32, packets []bpg.AppPacket) {
			fmt.Printf("  on_group: group=%d packets=%d\n", gid, len(packets))
		},
	)
	if err != nil {
		log.Error("decode failed: %v", err)
		os.Exit(1)
	}

	log.Info("--- trigger test callback + pump ---")
	api.TriggerTestCallback()
	api.Pump()
	select {
	case b := <-received:
		log.Info("message callback observed %d bytes", len(b))
	default:
		log.Warn("no message observed by the message callback")
	}

	log.Info("--- channel stats ---")
	stats := api.Stats()
	fmt.Printf("  messages sent=%d bytes sent=%d messages received=%d bytes received=%d dropped malformed=%d dropped busy=%d\n",
		stats.MessagesSent, stats.BytesSent, stats.MessagesReceived, stats.BytesReceived, stats.DroppedMalformed, stats.DroppedBusy)
}
