package bench

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/chunkDB/cmd/util"
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/chunkmap"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	// BenchCmd represents the bench command
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Performance testing tool for chunkDB maps",
		Long:    "",
		RunE:    run,
		PreRunE: processBenchConfig,
	}
	benchNumThreads  = 10
	benchPointSpread = 100_000
	benchFillSide    = 16
	benchSkip        = make([]string, 0)
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitCLIConfig)

	// Add common chunk map flags
	util.SetupMapFlags(BenchCmd)

	// add flags
	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	BenchCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "points"
	BenchCmd.Flags().Int(key, 100000, util.WrapString("How many different points to use for the tests"))
	key = "fill-side"
	BenchCmd.Flags().Int(key, 16, util.WrapString("Side length of the cubic region used for the fill, for-each and read-extent tests"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchNumThreads = viper.GetInt("threads")
	benchPointSpread = viper.GetInt("points")
	benchFillSide = viper.GetInt("fill-side")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for chunkDB maps")

	conf, err := util.GetMapConfig()
	if err != nil {
		return err
	}

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Threads: %d\n", benchNumThreads)
	fmt.Println()

	fmt.Println("starting benchmarks...")

	// Latency timers, keyed by benchmark name, for percentile reporting
	registry := metrics.NewRegistry()

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	setResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("set") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(set) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		timer := metrics.GetOrRegisterTimer("set", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				err := m.Set(getPoint(counter), uint16(counter))
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(set) - error setting point: %v\n", err)
				}
				counter++
			}
		})
	})

	results["set"] = setResult
	printResult("set", setResult, registry)

	getResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(get) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		// write the points so every read hits a live chunk
		iteratePoints(func(p geom.Point3) {
			if err := m.Set(p, 1); err != nil {
				log.Printf("(get) - error setting point: %v\n", err)
			}
		})

		timer := metrics.GetOrRegisterTimer("get", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				_, err := m.Get(getPoint(counter))
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(get) - error getting point: %v\n", err)
				}
				counter++
			}
		})
	})

	results["get"] = getResult
	printResult("get", getResult, registry)

	getAmbientResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get-ambient") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(get-ambient) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		timer := metrics.GetOrRegisterTimer("get-ambient", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				// far outside the written region, every read returns the ambient value
				p := geom.P3(int32(counter%64)-(1<<20), 0, 0)
				start := time.Now()
				_, err := m.Get(p)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(get-ambient) - error getting point: %v\n", err)
				}
				counter++
			}
		})
	})

	results["get-ambient"] = getAmbientResult
	printResult("get-ambient", getAmbientResult, registry)

	fillResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("fill") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(fill) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		side := int32(benchFillSide)
		timer := metrics.GetOrRegisterTimer("fill", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				min := geom.P3(int32(counter%64)*side, int32((counter/64)%64)*side, 0)
				region := geom.NewExtent(min, geom.Uniform[geom.Point3](side))
				start := time.Now()
				err := m.Fill(region, 7)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(fill) - error filling region: %v\n", err)
				}
				counter++
			}
		})
	})

	results["fill"] = fillResult
	printResult("fill", fillResult, registry)

	forEachResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("for-each") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(for-each) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		// write the region once, every iteration then scans it
		region := geom.NewExtent(geom.P3(0, 0, 0), geom.Uniform[geom.Point3](int32(benchFillSide)))
		if err := m.Fill(region, 3); err != nil {
			log.Printf("(for-each) - error filling region: %v\n", err)
		}

		timer := metrics.GetOrRegisterTimer("for-each", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				sum := 0
				start := time.Now()
				err := m.ForEach(region, func(_ geom.Point3, v uint16) bool {
					sum += int(v)
					return true
				})
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(for-each) - error iterating region: %v\n", err)
				}
			}
		})
	})

	results["for-each"] = forEachResult
	printResult("for-each", forEachResult, registry)

	readExtentResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("read-extent") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(read-extent) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		region := geom.NewExtent(geom.P3(0, 0, 0), geom.Uniform[geom.Point3](int32(benchFillSide)))
		if err := m.Fill(region, 3); err != nil {
			log.Printf("(read-extent) - error filling region: %v\n", err)
		}

		timer := metrics.GetOrRegisterTimer("read-extent", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				start := time.Now()
				_, err := m.ReadExtent(region)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(read-extent) - error reading region: %v\n", err)
				}
			}
		})
	})

	results["read-extent"] = readExtentResult
	printResult("read-extent", readExtentResult, registry)

	flushResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("flush") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(flush) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		if !hasFeature(m, cache.FeatureFlush) {
			log.Printf("(flush) - engine %s does not support flushing\n", conf.Engine)
			return
		}

		timer := metrics.GetOrRegisterTimer("flush", registry)

		b.ResetTimer()

		// Flush scans every chunk, parallel execution would just queue
		for i := 0; i < b.N; i++ {
			if err := m.Set(getPoint(i), uint16(i)); err != nil {
				log.Printf("(flush) - error setting point: %v\n", err)
			}
			start := time.Now()
			if err := m.Flush(); err != nil {
				log.Printf("(flush) - error flushing: %v\n", err)
			}
			timer.UpdateSince(start)
		}
	})

	results["flush"] = flushResult
	printResult("flush", flushResult, registry)

	mixedUsageResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		m, err := util.NewMap(conf)
		if err != nil {
			log.Printf("(mixed) - error creating map: %v\n", err)
			return
		}
		b.Cleanup(func() { _ = m.Close() })

		timer := metrics.GetOrRegisterTimer("mixed", registry)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				p := getPoint(counter)
				var err error
				start := time.Now()
				switch counter % 4 {
				case 0: // set
					err = m.Set(p, uint16(counter))
				case 1, 2: // get
					_, err = m.Get(p)
				case 3: // fill
					err = m.Fill(geom.NewExtent(p, geom.Uniform[geom.Point3](4)), 9)
				}
				timer.UpdateSince(start)

				if err != nil {
					log.Printf("(mixed) - error performing operation (%d): %v\n", counter%4, err)
				}
				counter++
			}
		})
	})

	results["mixed"] = mixedUsageResult
	printResult("mixed", mixedUsageResult, registry)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, conf, registry); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// getPoint maps a counter to a test point (with wraparound)
func getPoint(i int) geom.Point3 {
	i = i % benchPointSpread
	return geom.P3(int32(i%64), int32((i/64)%64), int32(i/4096))
}

// iteratePoints applies a function to each distinct test point
func iteratePoints(fn func(geom.Point3)) {
	for i := 0; i < benchPointSpread; i++ {
		fn(getPoint(i))
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

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, registry metrics.Registry) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)

	// Print latency percentiles if a timer was recorded
	if timer, ok := registry.Get(test).(metrics.Timer); ok {
		ps := timer.Percentiles([]float64{0.5, 0.99})
		fmt.Printf("%-20sp50 %s\tp99 %s\n", "", time.Duration(ps[0]), time.Duration(ps[1]))
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, conf *util.MapConfig, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50", "P99", "Skipped",
		"Engine", "Codec", "ChunkShape", "Capacity",
		"Threads", "Points", "FillSide",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		var p50, p99 float64
		if timer, ok := registry.Get(test).(metrics.Timer); ok {
			ps := timer.Percentiles([]float64{0.5, 0.99})
			p50, p99 = ps[0], ps[1]
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			time.Duration(p50).String(),
			time.Duration(p99).String(),
			skipped,
			conf.Engine,
			conf.Codec,
			util.FormatChunkShape(conf.ChunkShape),
			strconv.Itoa(conf.Capacity),
			strconv.Itoa(benchNumThreads),
			strconv.Itoa(benchPointSpread),
			strconv.Itoa(benchFillSide),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
