package ost

import (
	"github.com/cockroachdb/errors"
)

const (
	// MaxLeafElements is the element capacity of a leaf. Inserting into a full
	// leaf splits it into two leaves of 50 and 51 elements.
	MaxLeafElements = 100
	// MaxChildren is the child capacity of an internal node. An internal node
	// overflowing to 129 children splits into nodes of 64 and 65 children.
	MaxChildren = 128
	// MinPageSize is the size of the largest persisted node: tag, level,
	// child count and MaxChildren slots of 12 bytes. A full leaf needs 811.
	MinPageSize = 1 + 2 + 2 + MaxChildren*childSlotSize
)

// Config configures an Engine.
type Config struct {
	// PageSize is the fixed size of every page written. It must hold the
	// largest persisted node.
	PageSize int
}

func (cfg Config) normalized() Config {
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.PageSize < MinPageSize {
		return errors.Wrapf(ErrInvalidConfig, "page size %d below minimum %d", cfg.PageSize, MinPageSize)
	}
	if cfg.PageSize > 1<<30 {
		return errors.Wrapf(ErrInvalidConfig, "page size %d too large", cfg.PageSize)
	}
	return nil
}
