package channel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 通道指标。只做观测，核心逻辑从不读取。
var (
	// metricActiveChannels 当前活跃通道数
	metricActiveChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "netchannel",
		Subsystem: "channel",
		Name:      "active",
		Help:      "Number of currently active channels.",
	})

	// metricBytesQueued 累计入队字节数
	metricBytesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "netchannel",
		Subsystem: "channel",
		Name:      "bytes_queued_total",
		Help:      "Total number of bytes accepted into the pending write queue.",
	})

	// metricBytesSent 累计发送成功字节数
	metricBytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "netchannel",
		Subsystem: "channel",
		Name:      "bytes_sent_total",
		Help:      "Total number of bytes successfully sent to the transport.",
	})

	// metricBytesReceived 累计接收字节数
	metricBytesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "netchannel",
		Subsystem: "channel",
		Name:      "bytes_received_total",
		Help:      "Total number of bytes delivered to the pipeline.",
	})

	// metricWritabilityFlips 可写标志翻转次数
	metricWritabilityFlips = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "netchannel",
		Subsystem: "channel",
		Name:      "writability_flips_total",
		Help:      "Total number of writability flag flips.",
	})
)
