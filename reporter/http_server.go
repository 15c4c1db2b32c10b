// This is a http type of reporter.
// It fetches sidechain objects from the object storage
// and publishes their diagnostic renderings on the http routes.
// Diagnostics only; nothing served here is consensus data.

package reporter

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drivechain-project/sidechain-go/sidechain"
	"github.com/drivechain-project/sidechain-go/sidechaindb"
)

const (
	ROUTE_WITHDRAWALS   = "/withdrawals"
	ROUTE_BUNDLES       = "/bundles"
	ROUTE_LATEST_BUNDLE = "/bundles/latest"
	ROUTE_DEPOSITS      = "/deposits"
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data source
	objectdb sidechaindb.ObjectStorage // this is an interface
}

func NewHttpReporter(serverIP string, serverPort string, objectdb sidechaindb.ObjectStorage) *HttpReporter {
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		objectdb:   objectdb,
	}
}

// JSONObject is one stored object in reporting form.
type JSONObject struct {
	Hash   string `json:"hash"`
	Status string `json:"status,omitempty"`
	Height int32  `json:"height,omitempty"`
	Render string `json:"render"`
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET(ROUTE_WITHDRAWALS, h.Withdrawals)
	router.GET(ROUTE_BUNDLES, h.Bundles)
	router.GET(ROUTE_LATEST_BUNDLE, h.LatestBundle)
	router.GET(ROUTE_DEPOSITS, h.Deposits)

	return router
}

// Hook up router & ip:port
func (h *HttpReporter) Run() {
	router := h.SetupRouter()
	address := h.serverIP + ":" + h.serverPort
	if err := router.Run(address); err != nil {
		panic(err)
	}
}

// sidechainParam reads the mandatory ?sidechain= query parameter.
func sidechainParam(c *gin.Context) (uint8, bool) {
	raw := c.Query("sidechain")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sidechain must be provided"})
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sidechain must be a small unsigned integer"})
		return 0, false
	}
	return uint8(n), true
}

func (h *HttpReporter) Withdrawals(c *gin.Context) {
	nSidechain, ok := sidechainParam(c)
	if !ok {
		return
	}

	wts, err := h.objectdb.GetWithdrawalsBySidechain(nSidechain)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]JSONObject, 0, len(wts))
	for i := range wts {
		wt := &wts[i]
		out = append(out, JSONObject{
			Hash:   wt.Hash().String(),
			Status: wt.Status.String(),
			Render: wt.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *HttpReporter) Bundles(c *gin.Context) {
	nSidechain, ok := sidechainParam(c)
	if !ok {
		return
	}

	bundles, err := h.objectdb.GetBundlesBySidechain(nSidechain)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Most recent first.
	sidechain.SortBundlesByHeight(bundles)

	out := make([]JSONObject, 0, len(bundles))
	for i := range bundles {
		b := &bundles[i]
		out = append(out, JSONObject{
			Hash:   b.Hash().String(),
			Status: b.Status.String(),
			Height: b.Height,
			Render: b.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *HttpReporter) LatestBundle(c *gin.Context) {
	nSidechain, ok := sidechainParam(c)
	if !ok {
		return
	}

	b, err := h.objectdb.LatestBundle(nSidechain)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No bundle found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": JSONObject{
		Hash:   b.Hash().String(),
		Status: b.Status.String(),
		Height: b.Height,
		Render: b.String(),
	}})
}

func (h *HttpReporter) Deposits(c *gin.Context) {
	nSidechain, ok := sidechainParam(c)
	if !ok {
		return
	}

	deposits, err := h.objectdb.GetDepositsBySidechain(nSidechain)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]JSONObject, 0, len(deposits))
	for i := range deposits {
		d := &deposits[i]
		out = append(out, JSONObject{
			Hash:   d.Hash().String(),
			Render: d.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
