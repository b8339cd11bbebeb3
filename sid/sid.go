package sid

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"

	"github.com/lgasteroids/asteroids/util"
)

var (
	_Node *snowflake.Node
	_Mtx  sync.RWMutex
)

func init() {
	_ = SetNodeId(1)
}

// SetNodeId switches the generator to node id, 0 to 1023, so processes sharing ids stay unique.
func SetNodeId(id int64) *util.Err {
	node, e := snowflake.NewNode(id)
	if e != nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"node":  id,
			"error": e.Error(),
		})
	}
	_Mtx.Lock()
	_Node = node
	_Mtx.Unlock()
	return nil
}

func GetId() int64 {
	_Mtx.RLock()
	defer _Mtx.RUnlock()
	return _Node.Generate().Int64()
}

// GetStrId returns a base36 id, short enough for wire payloads.
func GetStrId() string {
	return strconv.FormatInt(GetId(), 36)
}
