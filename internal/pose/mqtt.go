package pose

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/Garsondee/RoboRadar/internal/shape"
)

// Keys lists every key MQTTSource subscribes to.
var Keys = []string{KeyX, KeyY, KeyR, KeyRSin, KeyRCos, KeyColor, KeyBoxW, KeyBoxH}

// ClientOptionsFromURL creates ClientOptions from a broker URL such as
// mqtt://10.12.34.2:1883/roboradar/. The path is the topic prefix.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}
	return opts, topicPrefix, nil
}

// ClientID derives a stable per-host client id for role.
func ClientID(role string) string {
	id, err := machineid.ProtectedID("roboradar")
	if err != nil {
		glog.V(1).Infof("pose: machine id unavailable: %v", err)
		return fmt.Sprintf("roboradar-%s-%d", role, os.Getpid())
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return "roboradar-" + role + "-" + id
}

// MQTTSource is a Source fed by a robot publishing its pose to a broker.
// Values are written from paho's callback goroutine.
type MQTTSource struct {
	Values

	Client paho.Client
	Prefix string
}

// NewMQTTSource creates a disconnected source for brokerURL.
func NewMQTTSource(brokerURL, clientID string) (*MQTTSource, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("pose: broker %q: %w", brokerURL, err)
	}
	if clientID != "" {
		opts.SetClientID(clientID)
	}
	m := &MQTTSource{Prefix: prefix}
	opts.SetOnConnectHandler(m.onConnect)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("pose: connection lost: %v", err)
	})
	m.Client = paho.NewClient(opts)
	return m, nil
}

// Connect waits up to timeout for the first connection. Poses read before
// then are the defaults.
func (m *MQTTSource) Connect(timeout time.Duration) error {
	return waitToken(m.Client.Connect(), timeout, "connect")
}

func (m *MQTTSource) Close() error {
	m.Client.Disconnect(250)
	return nil
}

func (m *MQTTSource) onConnect(c paho.Client) {
	glog.Infof("pose: connected, subscribing %s{%s}", m.Prefix, strings.Join(Keys, ","))
	filters := make(map[string]byte, len(Keys))
	for _, k := range Keys {
		filters[m.Prefix+k] = 0
	}
	c.SubscribeMultiple(filters, func(_ paho.Client, msg paho.Message) {
		m.Handle(msg.Topic(), msg.Payload())
	})
}

// Handle applies one message. Unknown topics and unparsable payloads are
// ignored so a bad publisher cannot stall the display.
func (m *MQTTSource) Handle(topic string, payload []byte) {
	if !strings.HasPrefix(topic, m.Prefix) {
		return
	}
	key := topic[len(m.Prefix):]
	glog.V(3).Infof("pose: RCV %q %q", key, payload)
	if key == KeyColor {
		c, err := ParseColor(payload)
		if err != nil {
			glog.V(1).Infof("pose: bad color %q: %v", payload, err)
			return
		}
		m.SetColor(c)
		return
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	if err != nil {
		glog.V(1).Infof("pose: bad number on %q: %v", key, err)
		return
	}
	m.Set(key, n)
}

// ParseColor accepts a JSON array [r,g,b], #rrggbb, or r,g,b. Components
// are clamped to 0..255.
func ParseColor(b []byte) (shape.RGB, error) {
	s := strings.TrimSpace(string(b))
	var parts []float64
	switch {
	case strings.HasPrefix(s, "["):
		if err := json.Unmarshal([]byte(s), &parts); err != nil {
			return shape.RGB{}, err
		}
	case strings.HasPrefix(s, "#") && len(s) == 7:
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return shape.RGB{}, err
		}
		return shape.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		for _, f := range strings.Split(s, ",") {
			n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return shape.RGB{}, err
			}
			parts = append(parts, n)
		}
	}
	if len(parts) != 3 {
		return shape.RGB{}, fmt.Errorf("expected 3 components, got %d", len(parts))
	}
	return shape.RGB{R: clamp8(parts[0]), G: clamp8(parts[1]), B: clamp8(parts[2])}, nil
}

func clamp8(f float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(f))))
}

// Publisher writes poses for an MQTTSource to read.
type Publisher struct {
	Client paho.Client
	Prefix string
}

func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("pose: broker %q: %w", brokerURL, err)
	}
	if clientID != "" {
		opts.SetClientID(clientID)
	}
	opts.SetOnConnectHandler(func(paho.Client) { glog.Info("pose: publisher connected") })
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("pose: publisher connection lost: %v", err)
	})
	return &Publisher{Client: paho.NewClient(opts), Prefix: prefix}, nil
}

func (p *Publisher) Connect(timeout time.Duration) error {
	return waitToken(p.Client.Connect(), timeout, "connect")
}

func (p *Publisher) Close() error {
	p.Client.Disconnect(250)
	return nil
}

func (p *Publisher) Number(key string, v float64) paho.Token {
	return p.Client.Publish(p.Prefix+key, 0, false, FormatNumber(v))
}

// Color is retained so late subscribers learn the team colour.
func (p *Publisher) Color(c shape.RGB) paho.Token {
	return p.Client.Publish(p.Prefix+KeyColor, 0, true, FormatColor(c))
}

func FormatNumber(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func FormatColor(c shape.RGB) string { return fmt.Sprintf("[%d,%d,%d]", c.R, c.G, c.B) }

func waitToken(t paho.Token, timeout time.Duration, op string) error {
	if !t.WaitTimeout(timeout) {
		return fmt.Errorf("pose: %s: timed out after %s", op, timeout)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("pose: %s: %w", op, err)
	}
	return nil
}
