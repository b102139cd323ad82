//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/robotalks/ledlink/pkg/device"
	"github.com/robotalks/ledlink/pkg/frame"
)

func main() {
	uart := machine.Serial
	uart.Configure(machine.UARTConfig{BaudRate: frame.BaudRate})

	ctl := device.NewController(uart, device.NewMachineBank())
	ctl.Start()

	buf := make([]byte, 32)
	for {
		n := 0
		for n < len(buf) && uart.Buffered() > 0 {
			b, err := uart.ReadByte()
			if err != nil {
				break
			}
			buf[n] = b
			n++
		}
		if n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		ctl.Feed(buf[:n])
	}
}
