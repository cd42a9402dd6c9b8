// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count1 := Counter("count1")
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})
	hist := Histogram("hist1", BucketHTTPReqs)
	gauge1 := Gauge("gauge1")
	gaugeVec := GaugeVec("gaugeVec1", []string{"zeroOrOne"})

	count1.Add(1)
	randCount2 := rand.N(100) + 1
	for range randCount2 {
		Counter("count2").Add(1)
	}

	histTotal := 0
	for i := range rand.N(100) + 2 {
		hist.Observe(int64(i))
		HistogramVec("hist2", []string{"zeroOrOne"}, nil).
			ObserveWithLabels(int64(i), map[string]string{"zeroOrOne": strconv.Itoa(i % 2)})
		histTotal += i
	}

	totalVec := 0
	for i := range rand.N(100) + 2 {
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		countVec.AddWithLabel(int64(i), labels)
		gaugeVec.AddWithLabel(int64(i), labels)
		gauge1.Add(int64(i))
		totalVec += i
	}

	metrics := gather(t)

	require.Equal(t, float64(1), metrics["repstake_count1"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(randCount2), metrics["repstake_count2"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(histTotal), metrics["repstake_hist1"].Metric[0].GetHistogram().GetSampleSum())

	sumHistVec := metrics["repstake_hist2"].Metric[0].GetHistogram().GetSampleSum() +
		metrics["repstake_hist2"].Metric[1].GetHistogram().GetSampleSum()
	require.Equal(t, float64(histTotal), sumHistVec)

	sumCountVec := metrics["repstake_countVec1"].Metric[0].GetCounter().GetValue() +
		metrics["repstake_countVec1"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(totalVec), sumCountVec)

	require.Equal(t, float64(totalVec), metrics["repstake_gauge1"].Metric[0].GetGauge().GetValue())
	sumGaugeVec := metrics["repstake_gaugeVec1"].Metric[0].GetGauge().GetValue() +
		metrics["repstake_gaugeVec1"].Metric[1].GetGauge().GetValue()
	require.Equal(t, float64(totalVec), sumGaugeVec)
}

func TestPromGaugeVecSet(t *testing.T) {
	InitializePrometheusMetrics()

	gaugeVec := GaugeVec("gaugeVecSet", []string{"kind"})
	gaugeVec.AddWithLabel(7, map[string]string{"kind": "a"})
	gaugeVec.SetWithLabel(3, map[string]string{"kind": "a"})

	metrics := gather(t)
	require.Equal(t, float64(3), metrics["repstake_gaugeVecSet"].Metric[0].GetGauge().GetValue())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// meters resolved after initialization are prometheus backed
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
