package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	// StatsRegistryRequests is base for counter metric for requests sent to the coin registry
	StatsRegistryRequests = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_registry_requests",
		Help:         "stats_registry_requests provides total requests sent to the coin registry",
		RequiredTags: []string{"endpoint", "status"},
	}

	StatsSnapshotsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_snapshots_succeeded",
		Help:         "stats_snapshots_succeeded provides total market snapshots produced",
		RequiredTags: []string{"coin"},
	}

	StatsSnapshotsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_snapshots_failed",
		Help:         "stats_snapshots_failed provides total market snapshot failures by kind",
		RequiredTags: []string{"kind"},
	}

	StatsMetadataDegraded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_metadata_degraded",
		Help:         "stats_metadata_degraded provides total snapshots built with fallback name and symbol",
		RequiredTags: []string{"coin"},
	}

	StatsLLMCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_calls_failed",
		Help:         "stats_llm_calls_failed provides total failed LLM calls",
		RequiredTags: []string{"model"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfRegistryRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_registry_request",
		Help:         "perf_registry_request provides duration of coin registry request",
		RequiredTags: []string{"endpoint"},
	}

	PerfLLMCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_call",
		Help:         "perf_llm_call provides duration of LLM call",
		RequiredTags: []string{"model"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfLLMCall,
	&PerfRegistryRequest,
	&PerfToolCall,
	&StatsLLMCallsFailed,
	&StatsMetadataDegraded,
	&StatsRegistryRequests,
	&StatsSnapshotsFailed,
	&StatsSnapshotsSucceeded,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
}
