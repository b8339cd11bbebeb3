package relay

import (
	"github.com/lgasteroids/asteroids/util"
)

const (
	EvtAck           = "ack"
	EvtScreenAmount  = "screen-amount"
	EvtConnectScreen = "connect-screen"
	EvtUpdateSlaves  = "update-slaves"
	EvtUpdateScreen  = "update-screen"
	EvtInstantiate   = "instantiate"
	EvtDestroy       = "destroy"
	EvtGameOver      = "game-over"
	EvtChangeScene   = "change-scene"
	EvtChangeHealth  = "change-health"
	EvtPlayerKilled  = "player-killed"
	EvtUpdatePlayer  = "update-player"
	EvtUpdateActions = "update-actions"
)

const (
	RoomMaster = "master"
	RoomSlave  = "slave"
)

// Packet is one websocket text frame. A non-zero Ack asks the peer to answer
// with an EvtAck packet carrying the same Ack.
type Packet struct {
	Event string       `json:"event"`
	Data  util.JsonRaw `json:"data,omitempty"`
	Ack   uint64       `json:"ack,omitempty"`
}

// Screen is a display registered under its number, Position is its index
// in the left-to-right layout.
type Screen struct {
	Id       string `json:"id"`
	Number   int    `json:"number"`
	Position int    `json:"position"`
}

// EntityData carries an entity across screens.
type EntityData struct {
	Id   string       `json:"id"`
	Type string       `json:"type,omitempty"`
	Data util.JsonRaw `json:"data,omitempty"`
}

func Encode(event string, data any, ack uint64) ([]byte, *util.Err) {
	pkt := Packet{
		Event: event,
		Ack:   ack,
	}
	switch d := data.(type) {
	case nil:
	case util.JsonRaw:
		pkt.Data = d
	default:
		bytes, err := util.JsonMarshal(data)
		if err != nil {
			err.AddParam("event", event)
			return nil, err
		}
		pkt.Data = bytes
	}
	return util.JsonMarshal(pkt)
}

func Decode(bytes []byte) (*Packet, *util.Err) {
	pkt := &Packet{}
	if err := util.JsonUnmarshal(bytes, pkt); err != nil {
		return nil, err
	}
	if pkt.Event == "" {
		return nil, util.NewErr(util.EcParamsErr, util.M{
			"error": "event required",
		})
	}
	if len(pkt.Data) == 0 {
		pkt.Data = util.JsonRaw("null")
	}
	return pkt, nil
}
