package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Initialize sets up the Snowflake generator with a node ID. Used for
// request IDs; entity IDs are UUIDs.
func Initialize(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// RequestID generates a new Snowflake ID as a string
func RequestID() string {
	if node == nil {
		_ = Initialize(1)
	}
	return node.Generate().String()
}
