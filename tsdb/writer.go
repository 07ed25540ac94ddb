// Package tsdb mirrors sensor readings and mixer state changes into
// InfluxDB for charting. Writes are batched and non-blocking.
package tsdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Rakib5627/mixer-machine-server/models"
)

const (
	defaultPingTimeout = 5 * time.Second
	batchSize          = 50
	flushIntervalMs    = 5000

	SensorMeasurement = "sensor_reading"
	MixerMeasurement  = "mixer_state"
)

var (
	ErrConnectionFailed = errors.New("influxdb: connection failed")
)

// pointWriter is the subset of api.WriteAPI the writer uses.
type pointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// Writer records points tagged with the machine id.
type Writer struct {
	client  influxdb2.Client
	api     pointWriter
	machine string
}

// Connect pings the server and starts a batching write API. Asynchronous
// write failures are logged.
func Connect(ctx context.Context, url, token, org, bucket string, logger *slog.Logger) (*Writer, error) {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().
			SetBatchSize(batchSize).
			SetFlushInterval(flushIntervalMs))

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(org, bucket)
	go func() {
		for err := range writeAPI.Errors() {
			logger.Warn("InfluxDB write failed", "error", err)
		}
	}()

	w := New(writeAPI, models.MachineID)
	w.client = client
	return w, nil
}

// New wraps a write API directly.
func New(api pointWriter, machine string) *Writer {
	return &Writer{api: api, machine: machine}
}

// SensorReading writes one point per accepted reading at its timestamp.
func (w *Writer) SensorReading(r models.SensorReading) {
	point := write.NewPoint(
		SensorMeasurement,
		map[string]string{"machine": w.machine},
		map[string]interface{}{
			"temperature":    r.Temperature,
			"humidity":       r.Humidity,
			"acceleration_x": r.Acceleration.X,
			"acceleration_y": r.Acceleration.Y,
			"acceleration_z": r.Acceleration.Z,
			"current":        r.Current,
		},
		r.Timestamp,
	)
	w.api.WritePoint(point)
}

// MixerState writes 1 for on and 0 for off so the state can be graphed.
func (w *Writer) MixerState(st models.MixerState) {
	running := 0
	if st.State == models.MixerOn {
		running = 1
	}

	ts := st.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	point := write.NewPoint(
		MixerMeasurement,
		map[string]string{"machine": w.machine},
		map[string]interface{}{"running": running},
		ts,
	)
	w.api.WritePoint(point)
}

// Close flushes pending points and releases the client.
func (w *Writer) Close() {
	w.api.Flush()
	if w.client != nil {
		w.client.Close()
	}
}
