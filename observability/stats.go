package observability

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName    = "github.com/benz9527/xtree"
	instrumentationVersion = "v0.1.0"

	attrTreeKind  = attribute.Key("tree.kind")
	attrTreeName  = attribute.Key("tree.name")
	attrRotateDir = attribute.Key("rotate.dir")
	attrFixupCase = attribute.Key("fixup.case")
)

// TreeStats receives the structural events of a tree. The trees are single
// threaded, but one TreeStats may be shared by many trees in different
// goroutines, so implementations must be thread safe.
type TreeStats interface {
	RecordInsert(kind string)
	RecordDelete(kind string)
	RecordRotation(kind, dir string)
	RecordFixup(kind, fixupCase string)
}

type noopTreeStats struct{}

func (noopTreeStats) RecordInsert(string)           {}
func (noopTreeStats) RecordDelete(string)           {}
func (noopTreeStats) RecordRotation(string, string) {}
func (noopTreeStats) RecordFixup(string, string)    {}

func NoopTreeStats() TreeStats {
	return noopTreeStats{}
}

type treeStats struct {
	ctx       context.Context
	name      attribute.KeyValue
	inserts   metric.Int64Counter
	deletes   metric.Int64Counter
	rotations metric.Int64Counter
	fixups    metric.Int64Counter
}

func (stats *treeStats) RecordInsert(kind string) {
	stats.inserts.Add(stats.ctx, 1, metric.WithAttributes(stats.name, attrTreeKind.String(kind)))
}

func (stats *treeStats) RecordDelete(kind string) {
	stats.deletes.Add(stats.ctx, 1, metric.WithAttributes(stats.name, attrTreeKind.String(kind)))
}

func (stats *treeStats) RecordRotation(kind, dir string) {
	stats.rotations.Add(stats.ctx, 1, metric.WithAttributes(
		stats.name,
		attrTreeKind.String(kind),
		attrRotateDir.String(dir),
	))
}

func (stats *treeStats) RecordFixup(kind, fixupCase string) {
	stats.fixups.Add(stats.ctx, 1, metric.WithAttributes(
		stats.name,
		attrTreeKind.String(kind),
		attrFixupCase.String(fixupCase),
	))
}

// NewTreeStats builds the counters on mp, or on the global meter provider
// (see the exporters) if mp is nil. An empty name is recorded as "default".
func NewTreeStats(mp metric.MeterProvider, name string) TreeStats {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if name = strings.TrimSpace(name); len(name) == 0 {
		name = "default"
	}
	meter := mp.Meter(
		instrumentationName,
		metric.WithInstrumentationVersion(instrumentationVersion),
	)
	return &treeStats{
		ctx:  context.Background(),
		name: attrTreeName.String(name),
		inserts: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.inserts",
			metric.WithDescription(`The keys inserted into the tree, duplicates excluded.`),
		)),
		deletes: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.deletes",
			metric.WithDescription(`The keys removed from the tree, absent keys excluded.`),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.rotations",
			metric.WithDescription(`The single rotations done while rebalancing.`),
		)),
		fixups: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.tree.fixups",
			metric.WithDescription(`The rebalancing cases applied, labeled by case.`),
		)),
	}
}
