package bus

import (
	"testing"
	"time"

	"github.com/telesense/sensebridge/internal/config"
)

func startTestBus(t *testing.T) (*EmbeddedServer, *Client) {
	t.Helper()
	srv, err := StartEmbedded(config.BusConfig{Embedded: true, Port: -1})
	if err != nil {
		t.Fatalf("start embedded server: %v", err)
	}
	t.Cleanup(srv.Shutdown)

	client, err := Connect(config.BusConfig{
		Servers:        []string{srv.ClientURL()},
		ConnectTimeout: 2000,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(client.Close)
	return srv, client
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	_, client := startTestBus(t)

	received := make(chan []byte, 1)
	if err := client.Subscribe("mobile_sensor/tts", func(data []byte) {
		received <- data
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := client.Publish("mobile_sensor/tts", []byte(`{"text":"Hello"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case data := <-received:
		if string(data) != `{"text":"Hello"}` {
			t.Fatalf("unexpected payload: %s", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bus delivery")
	}
}

func TestSlashTopicsMapToSubjects(t *testing.T) {
	if subjectFor("camera/image_raw/compressed") != "camera.image_raw.compressed" {
		t.Fatalf("unexpected subject: %s", subjectFor("camera/image_raw/compressed"))
	}
}

func TestCloseDrainsAndSettles(t *testing.T) {
	_, client := startTestBus(t)

	client.Close()
	if client.Healthy() {
		t.Fatal("closed client must not report healthy")
	}
	client.Close() // second close must be a no-op
}

func TestHealthy(t *testing.T) {
	_, client := startTestBus(t)
	if !client.Healthy() {
		t.Fatal("connected client must report healthy")
	}
	var nilClient *Client
	if nilClient.Healthy() {
		t.Fatal("nil client must not report healthy")
	}
}
