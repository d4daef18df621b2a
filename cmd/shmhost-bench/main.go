// Command shmhost-bench restores the original N-API addon's
// startThroughputTest/getThroughputStats instrumentation as a runnable
// benchmark against this repo's shmchan.Channel: one producer thread
// sends fixed-size payloads back to back while an outer-side stub
// drains them by polling the shared region's control words directly,
// and the command reports bytes/sec and messages/sec the same way
// addon.cc's GetThroughputStats did.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/mdmtseng/bpgshm/internal/hostlog"
	"github.com/mdmtseng/bpgshm/internal/shmchan"
)

// outerRCapacity is the fixed (unused by this benchmark) outer->host
// capacity the region is sized with; only the host->outer direction
// is exercised here.
const outerRCapacity = 64

func main() {
	payloadSize := flag.Int("size", 256, "payload size in bytes per message")
	duration := flag.Duration("duration", 2*time.Second, "how long to run the throughput test")
	capacity := flag.Int("cap", 1<<16, "host->outer data capacity in bytes (must be >= size)")
	waitMS := flag.Int("wait", 50, "claim_send_buffer wait_ms per send")
	flag.Parse()

	if *capacity < *payloadSize {
		fmt.Fprintln(os.Stderr, "-cap must be >= -size")
		os.Exit(1)
	}

	log := hostlog.New()
	log.Info("shmhost-bench: payload=%dB capacity=%dB duration=%s", *payloadSize, *capacity, *duration)

	region := make([]byte, shmchan.ControlHeaderSize+outerRCapacity+*capacity)
	channel := shmchan.NewChannel()
	if err := channel.Configure(region, outerRCapacity, *capacity, false); err != nil {
		log.Error("configure failed: %v", err)
		os.Exit(1)
	}
	defer channel.Teardown()

	// Outer-side stub: polls sig_h2r directly on the same region bytes
	// and clears it once observed, exactly the contract spec.md §6
	// describes for the opaque outer side.
	sigH2R := (*uint32)(unsafe.Pointer(&region[8]))
	stopDrain := make(chan struct{})
	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		for {
			select {
			case <-stopDrain:
				return
			default:
			}
			if atomic.LoadUint32(sigH2R) == 1 {
				atomic.StoreUint32(sigH2R, 0)
			} else {
				time.Sleep(time.Microsecond)
			}
		}
	}()

	channel.ResetStats()
	payload := make([]byte, *payloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	start := time.Now()
	deadline := start.Add(*duration)
	var attempts, sent uint64
	for time.Now().Before(deadline) {
		attempts++
		if err := channel.Send(payload, *waitMS); err == nil {
			sent++
		} else {
			log.Debug("send attempt %d: %v", attempts, err)
		}
	}
	elapsed := time.Since(start)

	close(stopDrain)
	<-drainDone

	stats := channel.Stats()
	seconds := elapsed.Seconds()
	bytesPerSec := float64(stats.BytesSent) / seconds
	msgsPerSec := float64(stats.MessagesSent) / seconds

	log.Info("results: elapsed=%s attempts=%d committed=%d dropped_busy=%d", elapsed, attempts, sent, stats.DroppedBusy)
	fmt.Printf("  bytesPerSecond=%.2f messagesPerSecond=%.2f totalBytes=%d totalMessages=%d seconds=%.3f\n",
		bytesPerSec, msgsPerSec, stats.BytesSent, stats.MessagesSent, seconds)
}
