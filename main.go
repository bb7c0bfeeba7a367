package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/jmgilman/go/exec"

	"github.com/microcosm-cc/astral/cache"
	"github.com/microcosm-cc/astral/chart"
	conf "github.com/microcosm-cc/astral/config"
	"github.com/microcosm-cc/astral/server"
)

var (
	configFile = flag.String("config", conf.ConfigFilePath, "path to the config file")
	memprof    = flag.String("memprof", "", "write memory profile to file")
)

func main() {

	// Parse flags and start memory profiling
	// Usage: -memprof=astral.mprof
	// Also used to init glog
	flag.Parse()

	// 100 megabytes max before rolling the config files
	glog.MaxSize = 1024 * 1024 * 100

	if *memprof != "" {
		// Reference time is used for formatting.
		// See http://golang.org/pkg/time for details.
		fname := *memprof + "-" + time.Now().Format("2006-01-02_15-04-05-MST")
		f, err := os.Create(fname)
		if err != nil {
			glog.Fatal(err)
		}

		// Catch SIGINT and write heap profile
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT)
		go func() {
			for sig := range c {
				glog.Warningf("Caught %v, stopping profiler and exiting..", sig)
				// Heap profiler is run on GC, so make sure it GCs before exiting.
				runtime.GC()
				pprof.WriteHeapProfile(f)
				f.Close()
				glog.Flush()
				os.Exit(1)
			}
		}()
	} else {
		// Catch closing signal and flush logs
		sigc := make(chan os.Signal, 1)
		signal.Notify(
			sigc,
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT,
		)
		go func() {
			<-sigc
			glog.Flush()
			os.Exit(1)
		}()
	}

	if err := conf.Load(*configFile); err != nil {
		glog.Fatal(err)
	}

	if glog.V(2) {
		glog.Infof(
			"Initialising cache for %d items or %d bytes",
			conf.ConfigInt64s[conf.CacheMaxItems],
			conf.ConfigInt64s[conf.CacheMaxSizeBytes],
		)
	}
	c, err := cache.New(cache.Limits{
		MaxItems:     conf.ConfigInt64s[conf.CacheMaxItems],
		MaxSizeBytes: conf.ConfigInt64s[conf.CacheMaxSizeBytes],
	})
	if err != nil {
		glog.Fatal(err)
	}
	loader := cache.NewLoader(c, conf.ConfigBools[conf.CoalesceMisses])

	renderer, err := chart.NewRenderer(
		chart.RendererConfig{
			Command:   conf.ConfigStrings[conf.RendererCommand],
			Timeout:   conf.ConfigStrings[conf.RendererTimeout],
			Language:  conf.ConfigStrings[conf.ChartLanguage],
			ThemePath: conf.ConfigStrings[conf.ThemeCSSPath],
			TempDir:   conf.ConfigStrings[conf.TempDir],
		},
		exec.New(exec.WithInheritEnv(), exec.WithDisableColors()),
	)
	if err != nil {
		glog.Fatal(err)
	}

	if glog.V(2) {
		glog.Infof(
			"Starting server on port %d",
			conf.ConfigInt64s[conf.ListenPort],
		)
	}
	server.StartServer(
		conf.ConfigInt64s[conf.ListenPort],
		loader,
		renderer,
		server.Jobs{
			StatsSchedule: conf.ConfigStrings[conf.StatsSchedule],
			TempDir:       conf.ConfigStrings[conf.TempDir],
			TempMaxAge:    time.Duration(conf.ConfigInt64s[conf.TempMaxAgeMinutes]) * time.Minute,
		},
	)
}
