// Package logger provides a small levelled logger safe for concurrent use.
//
// Lines are written as
//
//	[2006-01-02 15:04:05.000] [LEVEL] [component] message
//
// and the level tag is coloured when the output is a terminal.
//
// # Basic Usage
//
//	logger.Infof("listening on %s", addr)
//
//	l := logger.New(os.Stderr, logger.LevelDebug).With("pool")
//	l.Debugf("started %d workers", n)
//
// Messages below the configured level are dropped.
package logger
