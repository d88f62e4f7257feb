package uid

import (
	"crypto/rand"
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs suitable for primary keys.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator whose node number is derived from the
// hostname so that replicas of the service do not collide.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func nodeNumber() int64 {
	h, err := os.Hostname()
	if err != nil || h == "" {
		var b [2]byte
		if _, err := rand.Read(b[:]); err == nil {
			return int64(b[0])<<8 | int64(b[1])&0x3ff
		}
		return 1
	}

	f := fnv.New32a()
	_, _ = f.Write([]byte(h))
	// snowflake node numbers are 10 bits
	return int64(f.Sum32() % 1024)
}
