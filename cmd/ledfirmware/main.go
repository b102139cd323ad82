//go:build !tinygo

package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/ledlink/pkg/device"
	fx "github.com/robotalks/ledlink/pkg/framework"
	"github.com/robotalks/ledlink/pkg/signal"
)

// SerialPath is the websocket endpoint carrying the serial byte stream.
const SerialPath = "/serial"

var listenAddr string

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "Serve websocket on address (e.g. :8080), stdio if empty.")
}

// displayBank prints the bar whenever it changes. It's shared by all
// connections like the LEDs of a single board.
type displayBank struct {
	lock sync.Mutex
	bank *device.Bank
}

func (d *displayBank) SetActiveCount(n int) {
	d.lock.Lock()
	defer d.lock.Unlock()
	before := d.bank.Active()
	d.bank.SetActiveCount(n)
	if d.bank.Active() != before || bool(glog.V(1)) {
		glog.Infof("LEDs [%s] %d", render(d.bank.Pattern()), d.bank.Active())
	}
}

func render(pattern []bool) string {
	var sb strings.Builder
	for _, on := range pattern {
		if on {
			sb.WriteByte('*')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

type stdio struct {
	io.Reader
	io.Writer
}

func serveStdio(ctx context.Context, outs device.Outputs) error {
	err := device.NewController(nil, outs).Serve(ctx, stdio{Reader: os.Stdin, Writer: os.Stdout})
	if err == io.EOF {
		return nil
	}
	return err
}

func serveWebsocket(ctx context.Context, outs device.Outputs) error {
	mux := http.NewServeMux()
	mux.Handle(SerialPath, websocket.Handler(func(conn *websocket.Conn) {
		remote := conn.Request().RemoteAddr
		glog.Infof("%s connected", remote)
		err := device.NewController(nil, outs).Serve(conn.Request().Context(), conn)
		glog.Infof("%s disconnected: %v", remote, err)
	}))
	srv := &http.Server{Addr: listenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	glog.Infof("Serving ws://%s%s", listenAddr, SerialPath)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Parse()

	bank, _ := device.NewMemBank(signal.NumOutputs)
	outs := &displayBank{bank: bank}
	serve := serveStdio
	if listenAddr != "" {
		serve = serveWebsocket
	}
	err := fx.NewRunner().HandleSignals().Go(fx.RunFunc(func(ctx context.Context) error {
		return serve(ctx, outs)
	})).Wait()
	glog.Flush()
	if err != nil {
		log.Fatalln(err)
	}
}
