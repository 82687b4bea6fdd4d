package monitoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/neurosim/evaluation"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/plant"
	"github.com/sarchlab/neurosim/sim"
)

type sampleObject struct {
	name  string
	Gain  float64
	Steps []int
}

func (o *sampleObject) Name() string   { return o.name }
func (o *sampleObject) Info() sim.Info { return sim.Info{"gain": o.Gain} }

func newWalker() *model.Model {
	p, err := plant.MakeBuilder().Build()
	Expect(err).NotTo(HaveOccurred())

	c := model.DefaultConfig()
	c.ControlStepSize = 0.01

	m, err := model.MakeBuilder().
		WithPlant(p).
		WithConfig(c).
		WithLogger(sim.NewLogger("error", io.Discard)).
		Build()
	Expect(err).NotTo(HaveOccurred())

	return m
}

var _ = Describe("Monitor", func() {
	var (
		mockCtrl    *gomock.Controller
		evaluations *MockEvaluations
		m           *Monitor
		server      *httptest.Server
	)

	get := func(path string) (int, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())

		return rsp.StatusCode, body
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		evaluations = NewMockEvaluations(mockCtrl)

		m = NewMonitor().WithGatherer(prometheus.NewRegistry())
		m.profileDuration = 10 * time.Millisecond
		m.RegisterEvaluations(evaluations)

		server = httptest.NewServer(m.Router())
	})

	AfterEach(func() {
		server.Close()
		mockCtrl.Finish()
	})

	It("should list running evaluations", func() {
		evaluations.EXPECT().Running().Return([]evaluation.RunStatus{
			{ID: "b", Model: "walker", SimTime: 0.5, MaxDuration: 2, Steps: 50},
			{ID: "a", Model: "walker", SimTime: 0.1, MaxDuration: 2, Steps: 10},
		})
		evaluations.EXPECT().StopRequested().Return(false)

		code, body := get("/api/now")
		Expect(code).To(Equal(http.StatusOK))

		var rsp nowRsp
		Expect(json.Unmarshal(body, &rsp)).To(Succeed())
		Expect(rsp.Runs).To(HaveLen(2))
		Expect(rsp.Runs[0].ID).To(Equal("a"))
		Expect(rsp.Runs[1].Steps).To(Equal(int64(50)))
	})

	It("should request a stop on POST only", func() {
		evaluations.EXPECT().RequestStop().Times(1)

		code, _ := get("/api/stop")
		Expect(code).To(Equal(http.StatusMethodNotAllowed))

		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/stop", nil)
		Expect(err).NotTo(HaveOccurred())
		del, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		del.Body.Close()
		Expect(del.StatusCode).To(Equal(http.StatusMethodNotAllowed))
		Expect(del.Header.Get("Allow")).To(Equal(http.MethodPost))

		rsp, err := http.Post(server.URL+"/api/stop", "text/plain", nil)
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusAccepted))
	})

	It("should report object info", func() {
		obj := NewMockObject(mockCtrl)
		obj.EXPECT().Name().Return("walker").AnyTimes()
		obj.EXPECT().Info().Return(sim.Info{"time": 0.25})
		m.RegisterObject(obj)

		code, body := get("/api/info/walker")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"time": 0.25}`))

		code, body = get("/api/list_objects")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`["walker"]`))

		code, _ = get("/api/info/other")
		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("should serialize objects", func() {
		m.RegisterObject(&sampleObject{name: "walker", Gain: 2, Steps: []int{1, 2}})

		code, body := get("/api/object/walker")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).NotTo(BeEmpty())

		q, err := json.Marshal(fieldReq{ObjectName: "other", FieldName: "Gain"})
		Expect(err).NotTo(HaveOccurred())

		code, _ = get("/api/field/" + url.PathEscape(string(q)))
		Expect(code).To(Equal(http.StatusNotFound))

		code, _ = get("/api/field/" + url.PathEscape("{bad"))
		Expect(code).To(Equal(http.StatusBadRequest))
	})

	It("should track evaluations in a progress bar", func() {
		bar := m.CreateProgressBar("batch", 2)

		e := evaluation.NewEvaluator(sim.NewLogger("error", io.Discard), nil)
		e.AcceptHook(NewProgressHook(bar))

		e.Run(context.Background(), newWalker(), evaluation.Options{MaxDuration: 0.05})

		code, body := get("/api/progress")
		Expect(code).To(Equal(http.StatusOK))

		var bars []progressSnapshot
		Expect(json.Unmarshal(body, &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("batch"))
		Expect(bars[0].Finished).To(Equal(uint64(1)))
		Expect(bars[0].InProgress).To(Equal(uint64(0)))

		m.CompleteProgressBar(bar)
		_, body = get("/api/progress")
		Expect(body).To(MatchJSON(`[]`))
	})

	It("should count failed evaluations", func() {
		bar := m.CreateProgressBar("batch", 1)
		hook := NewProgressHook(bar)

		hook.Func(sim.HookCtx{Pos: evaluation.HookPosRunStart})
		hook.Func(sim.HookCtx{
			Pos:  evaluation.HookPosRunEnd,
			Item: evaluation.Result{Status: evaluation.StatusFailed},
		})

		Expect(bar.snapshot().Failed).To(Equal(uint64(1)))
		Expect(bar.snapshot().Finished).To(Equal(uint64(1)))
	})

	It("should expose metrics", func() {
		reg := prometheus.NewRegistry()
		metrics, err := evaluation.NewMetrics(reg)
		Expect(err).NotTo(HaveOccurred())

		server.Close()
		m.WithGatherer(reg)
		server = httptest.NewServer(m.Router())

		e := evaluation.NewEvaluator(sim.NewLogger("error", io.Discard), metrics)
		e.Run(context.Background(), newWalker(), evaluation.Options{MaxDuration: 0.02})

		code, body := get("/metrics")
		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring(
			`neurosim_evaluation_runs_total{status="completed"} 1`))
	})

	It("should report resources", func() {
		code, body := get("/api/resource")
		Expect(code).To(Equal(http.StatusOK))

		var rsp resourceRsp
		Expect(json.Unmarshal(body, &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a profile", func() {
		code, body := get("/api/profile")
		Expect(code).To(Equal(http.StatusOK))
		Expect(body).NotTo(BeEmpty())
	})

	It("should serve the status page", func() {
		code, body := get("/")
		Expect(code).To(Equal(http.StatusOK))
		Expect(string(body)).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should refuse low port numbers", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(Equal(0))
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})
})
