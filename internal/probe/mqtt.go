package probe

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
)

const defaultMQTTPort = "1883"

// mqttFetcher subscribes to a topic once and serves the latest message on
// every poll. Producers should publish retained messages so a fresh
// subscriber gets a snapshot immediately.
type mqttFetcher struct {
	topic  string
	format Format
	log    logger.Logger
	client mqtt.Client

	mu     sync.Mutex
	latest []byte
}

func newMQTTFetcher(ep Endpoint, opts Options) (*mqttFetcher, error) {
	format, _ := ep.QueryFormat()
	f := &mqttFetcher{topic: ep.Topic(), format: format, log: opts.Logger}

	host, port := ep.URL.Hostname(), ep.URL.Port()
	if port == "" {
		port = defaultMQTTPort
	}
	broker := "tcp://" + net.JoinHostPort(host, port)

	co := mqtt.NewClientOptions()
	co.AddBroker(broker)
	co.SetClientID(fmt.Sprintf("rtop-%d", time.Now().UnixNano()))
	if u := ep.URL.User; u != nil {
		co.SetUsername(u.Username())
		if pw, ok := u.Password(); ok {
			co.SetPassword(pw)
		}
	}
	co.SetKeepAlive(30 * time.Second)
	co.SetPingTimeout(opts.Timeout)
	co.SetConnectTimeout(opts.Timeout)
	co.SetAutoReconnect(true)
	co.SetMaxReconnectInterval(time.Minute)
	co.SetOnConnectHandler(f.onConnect)
	co.SetConnectionLostHandler(f.onConnectionLost)

	if err := f.connect(mqtt.NewClient(co), broker, opts.Timeout); err != nil {
		return nil, err
	}
	return f, nil
}

// connect waits up to timeout for the first connection. On timeout the
// client is shut down so it stops retrying in the background.
func (f *mqttFetcher) connect(c mqtt.Client, broker string, timeout time.Duration) error {
	token := c.Connect()
	if !token.WaitTimeout(timeout) {
		c.Disconnect(0)
		return errors.New(errors.ErrProbe,
			fmt.Sprintf("Timed out connecting to MQTT broker %s", broker),
			"Check the broker address and that it accepts connections")
	}
	if err := token.Error(); err != nil {
		return errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Couldn't connect to MQTT broker %s", broker),
			"Check the broker address and credentials")
	}
	f.client = c
	return nil
}

// onConnect subscribes on every (re)connect; the broker forgets
// subscriptions of a clean session.
func (f *mqttFetcher) onConnect(c mqtt.Client) {
	token := c.Subscribe(f.topic, 0, f.onMessage)
	if token.Wait() && token.Error() != nil {
		f.log.Warn("mqtt: subscribe to %s failed: %v", f.topic, token.Error())
		return
	}
	f.log.Debug("mqtt: subscribed to %s", f.topic)
}

func (f *mqttFetcher) onConnectionLost(_ mqtt.Client, err error) {
	f.log.Warn("mqtt: connection lost, reconnecting: %v", err)
}

func (f *mqttFetcher) onMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := append([]byte(nil), msg.Payload()...)

	f.mu.Lock()
	f.latest = payload
	f.mu.Unlock()
}

func (f *mqttFetcher) Fetch(ctx context.Context) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, errors.WrapWithCode(err, errors.ErrProbe, "Poll cancelled", "")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latest == nil {
		return Payload{}, errors.New(errors.ErrProbe,
			fmt.Sprintf("No message on topic %s yet", f.topic),
			"Publish snapshots with the retain flag so new subscribers see one")
	}
	return Payload{Data: f.latest, Format: f.format}, nil
}

func (f *mqttFetcher) Close() error {
	if f.client != nil {
		f.client.Disconnect(250)
	}
	return nil
}
