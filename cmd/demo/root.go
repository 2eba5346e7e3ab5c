package demo

import (
	"fmt"
	"github.com/ValentinKolb/chunkDB/cmd/util"
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/chunkmap"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"github.com/ValentinKolb/chunkDB/lib/sample"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strconv"
	"strings"
	"time"
)

// Materials written into the demo world
const (
	materialRock  uint16 = 1
	materialCrust uint16 = 2
	materialCore  uint16 = 3
)

var (
	// DemoCmd represents the demo command
	DemoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Build a small voxel world and walk through the chunk map API",
		Long: `The demo carves a sphere and a ground slab into a sparse chunk map,
derives lower resolution levels from it and prints engine statistics
along the way. It touches every public chunk map operation and is a
good starting point for exploring the library.`,
		RunE:    run,
		PreRunE: processDemoConfig,
	}
	demoRadius  = int32(48)
	demoLevels  = 2
	demoSampler = "mean"
	demoEvents  = false
	logger      = util.CreateLogger("demo")
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitCLIConfig)

	// Add common chunk map flags
	util.SetupMapFlags(DemoCmd)

	// add flags
	key := "radius"
	DemoCmd.Flags().Int(key, 48, util.WrapString("Radius of the sphere carved into the world"))
	key = "levels"
	DemoCmd.Flags().Int(key, 2, util.WrapString("How many half resolution levels to derive from the world"))
	key = "sampler"
	DemoCmd.Flags().String(key, "mean", util.WrapString("Downsampling strategy (mean, point)"))
	key = "events"
	DemoCmd.Flags().Bool(key, false, util.WrapString("Consume and count chunk lifecycle events during the demo"))
}

func processDemoConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	demoRadius = int32(viper.GetInt("radius"))
	demoLevels = viper.GetInt("levels")
	demoSampler = viper.GetString("sampler")
	demoEvents = viper.GetBool("events")

	level, err := util.ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	conf, err := util.GetMapConfig()
	if err != nil {
		return err
	}
	conf.EmitEvents = demoEvents
	conf.Metrics = metrics.NewSet()

	fmt.Println("chunkDB demo: carving a voxel world into a sparse chunk map")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())

	world, err := util.NewMap(conf)
	if err != nil {
		return err
	}

	// Count lifecycle events in the background. The consumer must be running
	// before the first write, otherwise the event queue grows unboundedly.
	consumeEvents := demoEvents && hasFeature(world, cache.FeatureEvents)
	eventCounts := make(map[cache.EventType]int)
	eventsDone := make(chan struct{})
	if consumeEvents {
		go func() {
			defer close(eventsDone)
			for ev := range world.Events() {
				eventCounts[ev.Type]++
				logger.Debugf("%v event for chunk key %v", ev.Type, ev.Key)
			}
		}()
	}

	radius := demoRadius

	// Solid ground slab below the sphere
	ground := geom.NewExtent(geom.P3(-2*radius, -radius-8, -2*radius), geom.Point3{4 * radius, 8, 4 * radius})
	start := time.Now()
	if err := world.Fill(ground, materialRock); err != nil {
		return err
	}
	logger.Infof("filled ground slab of %d points in %v", ground.NumPoints(), time.Since(start))

	// Hollow sphere around the origin, written point by point
	sphere := geom.NewExtent(geom.P3(-radius, -radius, -radius), geom.Uniform[geom.Point3](2*radius))
	crustBound := (radius - 6) * (radius - 6)
	start = time.Now()
	var placed int64
	var sphereErr error
	sphere.ForEach(func(p geom.Point3) bool {
		d2 := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if d2 > radius*radius {
			return true
		}
		material := materialCore
		if d2 >= crustBound {
			material = materialCrust
		}
		if sphereErr = world.Set(p, material); sphereErr != nil {
			return false
		}
		placed++
		return true
	})
	if sphereErr != nil {
		return sphereErr
	}
	logger.Infof("carved sphere of %d points (radius %d) in %v", placed, radius, time.Since(start))

	// Point queries against written and unwritten space
	v, err := world.Get(geom.P3(0, 0, 0))
	if err != nil {
		return err
	}
	logger.Infof("material at the core: %d", v)

	v, err = world.Get(geom.P3(4*radius, 4*radius, 4*radius))
	if err != nil {
		return err
	}
	logger.Infof("material far outside: %d (ambient)", v)

	keys := world.OccupiedKeys()
	bounds, _ := world.Bounds()
	logger.Infof("%d occupied chunks spanning %v", len(keys), bounds)

	// Derive half resolution levels from the world
	sampler, err := getSampler()
	if err != nil {
		return err
	}

	levels := make([]chunkmap.IChunkMap[uint16, geom.Point3], 0, demoLevels)
	defer func() {
		for _, m := range levels {
			_ = m.Close()
		}
	}()

	src := world
	for level := 1; level <= demoLevels; level++ {
		srcBounds, ok := src.Bounds()
		if !ok {
			break
		}

		// pyramid maps get a private metrics set and no event queue
		levelConf := *conf
		levelConf.Metrics = nil
		levelConf.EmitEvents = false

		dst, err := util.NewMap(&levelConf)
		if err != nil {
			return err
		}

		start = time.Now()
		if err := sample.Downsample(src, dst, srcBounds, sampler); err != nil {
			return err
		}
		logger.Infof("downsampled level %d: %d occupied chunks in %v", level, len(dst.OccupiedKeys()), time.Since(start))

		levels = append(levels, dst)
		src = dst
	}

	// Cross section of the coarsest level at the sphere equator
	if len(levels) > 0 {
		top := levels[len(levels)-1]
		side := radius >> demoLevels
		slice := geom.NewExtent(geom.P3(-side, 0, -side), geom.Point3{2 * side, 1, 2 * side})
		arr, err := top.ReadExtent(slice)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("Equator cross section at 1/%d resolution:\n", 1<<demoLevels)
		for z := -side; z < side; z++ {
			row := make([]byte, 0, 2*side)
			for x := -side; x < side; x++ {
				row = append(row, materialChar(arr.Get(geom.P3(x, 0, z))))
			}
			fmt.Println(string(row))
		}
	}

	// Compress every dirty chunk back into the store
	if hasFeature(world, cache.FeatureFlush) {
		start = time.Now()
		if err := world.Flush(); err != nil {
			return err
		}
		logger.Infof("flushed world in %v", time.Since(start))
	}

	printInfo("world", world.GetInfo())
	for i, m := range levels {
		printInfo(fmt.Sprintf("level %d", i+1), m.GetInfo())
	}

	// Close the world first so the event consumer sees the end of the stream
	if err := world.Close(); err != nil {
		return err
	}

	if consumeEvents {
		<-eventsDone
		fmt.Println()
		fmt.Println("EVENTS")
		for _, t := range []cache.EventType{cache.EventTMaterialize, cache.EventTEvict, cache.EventTPrune, cache.EventTFlush} {
			fmt.Printf("  %-22s: %d\n", t, eventCounts[t])
		}
	}

	// Prometheus snapshot of the world map's engine counters
	fmt.Println()
	fmt.Println("METRICS")
	conf.Metrics.WritePrometheus(os.Stdout)

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// getSampler selects the downsampling strategy from configuration
func getSampler() (sample.ISampler[uint16, geom.Point3], error) {
	switch demoSampler {
	case "mean":
		return sample.MeanSampler[uint16, geom.Point3]{}, nil
	case "point":
		return sample.PointSampler[uint16, geom.Point3]{}, nil
	default:
		return nil, fmt.Errorf("invalid sampler %s", demoSampler)
	}
}

// hasFeature checks the engine feature list reported by the map
func hasFeature(m chunkmap.IChunkMap[uint16, geom.Point3], f cache.Feature) bool {
	for _, supported := range m.GetInfo().SupportedFeatures {
		if supported == f {
			return true
		}
	}
	return false
}

// materialChar maps a value to a character for the cross section rendering.
// Mean downsampling blends materials with the ambient value, so the ranges
// are open ended.
func materialChar(v uint16) byte {
	switch {
	case v == 0:
		return '.'
	case v < materialCrust:
		return '-'
	case v < materialCore:
		return '#'
	default:
		return '+'
	}
}

// printInfo prints engine statistics in a formatted way
func printInfo(name string, info cache.Info) {
	fmt.Printf("\n%s\n", strings.ToUpper(name))

	addField := func(field, value string) {
		fmt.Printf("  %-22s: %s\n", field, value)
	}

	addField("Engine", string(info.Engine))
	addField("Chunks", strconv.Itoa(info.ChunkCount))
	addField("Resident", strconv.Itoa(info.ResidentCount))
	addField("Dirty", strconv.Itoa(info.DirtyCount))
	addField("Stored Bytes", strconv.Itoa(info.StoredBytes))
}
