package wire

import "github.com/telesense/sensebridge/internal/core"

// Bus topic names. These are the external contract; never renamed.
const (
	TopicCameraImage = "camera/image_raw/compressed"
	TopicCameraInfo  = "camera/camera_info"
	TopicIMU         = "mobile_sensor/imu"
	TopicGPS         = "mobile_sensor/gps"
	TopicPose        = "mobile_sensor/pose"
	TopicSpeech      = "mobile_sensor/speech"
	TopicTTSIn       = "mobile_sensor/tts"
	TopicTTSWAV      = "mobile_sensor/tts_wav"
	TopicWAVBytes    = "mobile_sensor/wav_bytes"
)

// Binding maps one channel kind to its bus endpoints. PublishTopics is
// every topic an inbound sample fans out to; SubscribeTopics is every
// bus subject feeding an outbound channel (aliases are listed together
// and honored simultaneously).
type Binding struct {
	Channel         core.ChannelKey
	PublishTopics   []string
	SubscribeTopics []string
}

// Bindings is fixed at process start; never mutated at runtime.
var Bindings = map[core.ChannelKey]Binding{
	core.ChannelCamera: {
		Channel:       core.ChannelCamera,
		PublishTopics: []string{TopicCameraImage, TopicCameraInfo},
	},
	core.ChannelIMU: {
		Channel:       core.ChannelIMU,
		PublishTopics: []string{TopicIMU},
	},
	core.ChannelGPS: {
		Channel:       core.ChannelGPS,
		PublishTopics: []string{TopicGPS},
	},
	core.ChannelPose: {
		Channel:       core.ChannelPose,
		PublishTopics: []string{TopicPose},
	},
	core.ChannelMicrophone: {
		Channel:       core.ChannelMicrophone,
		PublishTopics: []string{TopicSpeech},
	},
	core.ChannelTTS: {
		Channel:         core.ChannelTTS,
		SubscribeTopics: []string{TopicTTSIn},
	},
	core.ChannelWAVAudio: {
		Channel: core.ChannelWAVAudio,
		// tts_wav is the legacy name kept through the naming migration;
		// both subjects feed the same consumer channel.
		SubscribeTopics: []string{TopicTTSWAV, TopicWAVBytes},
	},
}
