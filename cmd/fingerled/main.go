package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/ledlink/pkg/link"
	"github.com/robotalks/ledlink/pkg/mqtt"
	"github.com/robotalks/ledlink/pkg/orchestrator"
	"github.com/robotalks/ledlink/pkg/source"
	"github.com/robotalks/ledlink/pkg/telemetry"
)

// MQTTURLEnv provides the default of -mqtt.
const MQTTURLEnv = "LEDLINK_MQTT_URL"

var (
	sourceAddr  = "-"
	mqttURL     = os.Getenv(MQTTURLEnv)
	telemetryID string
	verbose     bool
)

func init() {
	link.SetupFlags()
	orchestrator.SetupFlags()
	flag.StringVar(&sourceAddr, "source", sourceAddr, "Signal source: - for stdin, or mqtt://host:port/topic.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL for telemetry, empty to disable (env "+MQTTURLEnv+").")
	flag.StringVar(&telemetryID, "id", telemetryID, "Telemetry ID, machine ID if empty.")
	flag.BoolVar(&verbose, "verbose", verbose, "Log every sent value.")
}

func openSource(addr string) (source.Source, func(), error) {
	if addr == "-" {
		return source.NewScanner(os.Stdin), func() {}, nil
	}
	if !strings.Contains(addr, "://") {
		return nil, nil, fmt.Errorf("unsupported source %q", addr)
	}
	opts, topic, err := mqtt.ClientOptionsFromURL(addr)
	if err != nil {
		return nil, nil, err
	}
	if topic == "" {
		return nil, nil, fmt.Errorf("source %q: topic missing", addr)
	}
	q := mqtt.NewQueue(opts, "")
	sub := source.Subscribe(q, topic)
	if err := q.Connect(); err != nil {
		return nil, nil, fmt.Errorf("source %q: %v", addr, err)
	}
	return sub, func() {
		sub.Close()
		q.Close()
	}, nil
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Parse()
	if verbose {
		flag.Set("v", "2")
	}
	defer glog.Flush()

	src, closeSrc, err := openSource(sourceAddr)
	if err != nil {
		log.Fatalln(err)
	}
	defer closeSrc()

	ln := link.Default().New()
	ln.Open()
	defer ln.Close()

	conf := orchestrator.Default()
	o := conf.New(src, ln)
	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		if err := q.Connect(); err != nil {
			log.Fatalln("telemetry:", err)
		}
		defer q.Close()
		o.Reporter = telemetry.NewPublisher(q, telemetryID)
	}

	glog.Infof("Running (link %s, smoothing %d frames)", ln.State(), o.Smoother.Size())
	conf.NewLoop(o).RunOrFail()
}
