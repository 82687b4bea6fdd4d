// Package monitoring turns a running evaluation into a web server that can
// be watched and stopped from outside.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/neurosim/evaluation"
	"github.com/sarchlab/neurosim/monitoring/web"
	"github.com/sarchlab/neurosim/sim"
)

// Evaluations is what the monitor needs from an evaluator.
type Evaluations interface {
	Running() []evaluation.RunStatus
	RequestStop()
	StopRequested() bool
}

// An Object can be inspected through the monitor.
type Object interface {
	Name() string
	Info() sim.Info
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	evaluations Evaluations
	gatherer    prometheus.Gatherer
	portNumber  int

	objectsLock sync.Mutex
	objects     []Object

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	profileDuration time.Duration
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		gatherer:        prometheus.DefaultGatherer,
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithGatherer sets where the /metrics endpoint reads metrics from.
func (m *Monitor) WithGatherer(g prometheus.Gatherer) *Monitor {
	m.gatherer = g
	return m
}

// RegisterEvaluations registers the evaluator to watch and stop.
func (m *Monitor) RegisterEvaluations(e Evaluations) {
	m.evaluations = e
}

// RegisterObject registers an object, usually a model or a controller, to
// be inspected.
func (m *Monitor) RegisterObject(o Object) {
	m.objectsLock.Lock()
	defer m.objectsLock.Unlock()

	m.objects = append(m.objects, o)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/list_objects", m.listObjects)
	r.HandleFunc("/api/info/{name}", m.objectInfo)
	r.HandleFunc("/api/object/{name}", m.objectDetails)
	r.HandleFunc("/api/field/{json}", m.fieldValue)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/stop", m.stop)
	r.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	server := &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()

	return url, nil
}

type nowRsp struct {
	Runs          []evaluation.RunStatus `json:"runs"`
	StopRequested bool                   `json:"stop_requested"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	rsp := nowRsp{Runs: []evaluation.RunStatus{}}

	if m.evaluations != nil {
		rsp.Runs = m.evaluations.Running()
		rsp.StopRequested = m.evaluations.StopRequested()
	}

	sort.Slice(rsp.Runs, func(i, j int) bool {
		return rsp.Runs[i].ID < rsp.Runs[j].ID
	})

	writeJSON(w, rsp)
}

// stop only accepts POST.
func (m *Monitor) stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "stop requires POST", http.StatusMethodNotAllowed)

		return
	}

	if m.evaluations == nil {
		http.Error(w, "no evaluation to stop", http.StatusConflict)
		return
	}

	m.evaluations.RequestStop()
	w.WriteHeader(http.StatusAccepted)
}

func (m *Monitor) listObjects(w http.ResponseWriter, _ *http.Request) {
	m.objectsLock.Lock()
	names := make([]string, 0, len(m.objects))
	for _, o := range m.objects {
		names = append(names, o.Name())
	}
	m.objectsLock.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) findObjectOr404(w http.ResponseWriter, name string) Object {
	m.objectsLock.Lock()
	defer m.objectsLock.Unlock()

	for _, o := range m.objects {
		if o.Name() == name {
			return o
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Object not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) objectInfo(w http.ResponseWriter, r *http.Request) {
	o := m.findObjectOr404(w, mux.Vars(r)["name"])
	if o == nil {
		return
	}

	writeJSON(w, o.Info())
}

func (m *Monitor) objectDetails(w http.ResponseWriter, r *http.Request) {
	o := m.findObjectOr404(w, mux.Vars(r)["name"])
	if o == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(o)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	ObjectName string `json:"object_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

func (m *Monitor) fieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o := m.findObjectOr404(w, req.ObjectName)
	if o == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(o)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressSnapshot, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
