package core

// ChannelKey names one sensor/data kind. Keys double as the websocket
// path under which the channel is served.
type ChannelKey string

const (
	ChannelPose       ChannelKey = "pose"
	ChannelCamera     ChannelKey = "camera"
	ChannelIMU        ChannelKey = "imu"
	ChannelGPS        ChannelKey = "gps"
	ChannelMicrophone ChannelKey = "microphone"
	ChannelTTS        ChannelKey = "tts"
	ChannelWAVAudio   ChannelKey = "wav_audio"
)

// Direction of a channel relative to the bus.
type Direction int

const (
	// Inbound: producer pushes samples, bridge publishes to the bus.
	Inbound Direction = iota
	// Outbound: bus messages fan out to every connected peer.
	Outbound
)

type ChannelSpec struct {
	Key       ChannelKey
	Direction Direction
}

// Specs is the fixed channel set. Never mutated at runtime.
var Specs = []ChannelSpec{
	{ChannelPose, Inbound},
	{ChannelCamera, Inbound},
	{ChannelIMU, Inbound},
	{ChannelGPS, Inbound},
	{ChannelMicrophone, Inbound},
	{ChannelTTS, Outbound},
	{ChannelWAVAudio, Outbound},
}

// Status is the advisory per-channel connection state surfaced to
// observers. It is never consulted for delivery decisions.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}
