// Package logger carries a *logrus.Entry through context.Context so each
// CLI run or MCP request logs with its own fields.
package logger
