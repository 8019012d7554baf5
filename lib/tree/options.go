package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type treeCfg struct {
	isDesc bool
	name   string
	logger xlog.XLogger
	stats  observability.TreeStats
}

type TreeOpt func(*treeCfg)

// WithDesc orders the keys from the greatest to the smallest.
func WithDesc() TreeOpt {
	return func(cfg *treeCfg) {
		cfg.isDesc = true
	}
}

// WithName labels the tree in logs and metrics. Defaults to its kind.
func WithName(name string) TreeOpt {
	return func(cfg *treeCfg) {
		cfg.name = name
	}
}

// WithXLogger traces rotations and rebalancing cases at debug level.
func WithXLogger(logger xlog.XLogger) TreeOpt {
	return func(cfg *treeCfg) {
		cfg.logger = logger
	}
}

func WithStats(stats observability.TreeStats) TreeOpt {
	return func(cfg *treeCfg) {
		cfg.stats = stats
	}
}

// treeBase carries what every tree kind shares except its nodes.
type treeBase[K infra.OrderedKey] struct {
	cmp    infra.OrderedKeyComparator[K]
	kind   string
	name   string
	logger xlog.XLogger // nil disables tracing
	stats  observability.TreeStats
	count  int64
}

func newTreeBase[K infra.OrderedKey](kind string, opts []TreeOpt) treeBase[K] {
	cfg := &treeCfg{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	base := treeBase[K]{
		cmp:    infra.AscCompare[K],
		kind:   kind,
		name:   cfg.name,
		logger: cfg.logger,
		stats:  cfg.stats,
	}
	if cfg.isDesc {
		base.cmp = infra.DescCompare[K]
	}
	if len(base.name) == 0 {
		base.name = kind
	}
	if base.stats == nil {
		base.stats = observability.NoopTreeStats()
	}
	if base.logger != nil {
		base.logger = base.logger.Named(base.name)
	}
	return base
}

func (base *treeBase[K]) compare(i, j K) int64 {
	return base.cmp(i, j)
}

func (base *treeBase[K]) Len() int64 {
	return base.count
}

func (base *treeBase[K]) inserted(key K) {
	base.count++
	base.stats.RecordInsert(base.kind)
	if base.logger != nil {
		base.logger.Debug("insert", zap.String("kind", base.kind), zap.Any("key", key), zap.Int64("len", base.count))
	}
}

func (base *treeBase[K]) deleted(key K) {
	base.count--
	base.stats.RecordDelete(base.kind)
	if base.logger != nil {
		base.logger.Debug("delete", zap.String("kind", base.kind), zap.Any("key", key), zap.Int64("len", base.count))
	}
}

// traceRotate records a rotation of the subtree rooted at pivot towards dir.
func (base *treeBase[K]) traceRotate(dir RBDirection, pivot K) {
	base.stats.RecordRotation(base.kind, dir.String())
	if base.logger != nil {
		base.logger.Debug("rotate", zap.String("kind", base.kind), zap.Stringer("dir", dir), zap.Any("pivot", pivot))
	}
}

func (base *treeBase[K]) traceFixup(fixupCase string, at K) {
	base.stats.RecordFixup(base.kind, fixupCase)
	if base.logger != nil {
		base.logger.Debug("rebalance", zap.String("kind", base.kind), zap.String("case", fixupCase), zap.Any("at", at))
	}
}
