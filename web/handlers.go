package web

import (
	"log"
	"net/http"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/transform_tree/config"
	"github.com/mogaika/transform_tree/events"
	"github.com/mogaika/transform_tree/transform"
	"github.com/mogaika/transform_tree/utils"
	"github.com/mogaika/transform_tree/webutils"
)

// TransformMessage is the ingestion wire shape. Time is absolute
// nanoseconds already; splitting into seconds+nanos never happens
// past this boundary. Rotation is x, y, z, w.
type TransformMessage struct {
	Child       string     `json:"child"`
	Parent      string     `json:"parent"`
	TimeNanos   int64      `json:"time"`
	Translation [3]float64 `json:"translation"`
	Rotation    [4]float64 `json:"rotation"`
}

func (m *TransformMessage) Rigid() transform.Rigid {
	return transform.New(
		mgl64.Vec3{m.Translation[0], m.Translation[1], m.Translation[2]},
		mgl64.Quat{
			W: m.Rotation[3],
			V: mgl64.Vec3{m.Rotation[0], m.Rotation[1], m.Rotation[2]},
		})
}

func HandlerIngestTransform(w http.ResponseWriter, r *http.Request) {
	var msg TransformMessage
	if err := webutils.ReadJsonBody(r, &msg); err != nil {
		webutils.WriteError(w, err)
		return
	}
	if msg.Child == "" || msg.Parent == "" {
		webutils.WriteError(w, errors.Errorf("transform message requires child and parent frame names"))
		return
	}

	up := ServerTree.AddTransform(msg.Child, msg.Parent, msg.TimeNanos, msg.Rigid())
	for _, name := range up.NewFrames {
		events.FrameAdded(name, msg.Parent)
	}
	if up.Reparented {
		events.Reparented(msg.Child, msg.Parent)
	}
	webutils.WriteJson(w, up)
}

func HandlerFrames(w http.ResponseWriter, r *http.Request) {
	names := ServerTree.FrameNames()
	sort.Strings(names)
	webutils.WriteJson(w, names)
}

type frameInfo struct {
	Name        string `json:"name"`
	Parent      string `json:"parent,omitempty"`
	Root        string `json:"root,omitempty"`
	SampleCount int    `json:"sample_count"`
	FirstSample int64  `json:"first_sample,omitempty"`
	LastSample  int64  `json:"last_sample,omitempty"`
}

func HandlerFrame(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	f, ok := ServerTree.Frame(name)
	if !ok {
		webutils.WriteError(w, errors.Errorf("unknown frame %q", name))
		return
	}
	info := frameInfo{
		Name:        f.Name(),
		Parent:      f.Parent(),
		SampleCount: f.SampleCount(),
	}
	if root, err := ServerTree.Root(name); err == nil {
		info.Root = root
	}
	if first, last, ok := f.SampleRange(); ok {
		info.FirstSample = first
		info.LastSample = last
	}
	webutils.WriteJson(w, info)
}

type poseResponse struct {
	Frame       string     `json:"frame"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
}

func HandlerApply(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	src, dst := q.Get("src"), q.Get("dst")
	if src == "" || dst == "" {
		webutils.WriteError(w, errors.Errorf("src and dst frame params are required"))
		return
	}

	fixed := q.Get("fixed")
	if fixed == "" {
		var ok bool
		if fixed, ok = config.FixedFramePolicy().FixedFrame(ServerTree); !ok {
			webutils.WriteError(w, errors.Errorf("no fixed frame available yet"))
			return
		}
	}

	srcTime, err := webutils.QueryInt64(r, "src_time", 0)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	dstTime, err := webutils.QueryInt64(r, "dst_time", srcTime)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	maxExtrapolation, err := webutils.QueryInt64(r, "max_extrapolation",
		config.Current().MaxExtrapolationNanos)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	pose := transform.IdentityPose()
	for i, key := range []string{"px", "py", "pz"} {
		if pose.Position[i], err = webutils.QueryFloat(r, key, 0); err != nil {
			webutils.WriteError(w, err)
			return
		}
	}
	var quat [4]float64
	quat[3] = 1
	for i, key := range []string{"ox", "oy", "oz", "ow"} {
		if quat[i], err = webutils.QueryFloat(r, key, quat[i]); err != nil {
			webutils.WriteError(w, err)
			return
		}
	}
	pose.Orientation = mgl64.Quat{W: quat[3], V: mgl64.Vec3{quat[0], quat[1], quat[2]}}

	out, err := ServerTree.Apply(dst, pose, src, dstTime, srcTime, fixed, maxExtrapolation)
	if err != nil {
		// expected outcome while data is missing, reported, not logged
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, &poseResponse{
		Frame:    dst,
		Position: [3]float64{out.Position.X(), out.Position.Y(), out.Position.Z()},
		Orientation: [4]float64{
			out.Orientation.X(), out.Orientation.Y(), out.Orientation.Z(), out.Orientation.W},
	})
}

func HandlerDumpTree(w http.ResponseWriter, r *http.Request) {
	snap := ServerTree.Snapshot()
	dump := struct {
		Frames map[string]frameInfo
	}{Frames: make(map[string]frameInfo)}
	for _, name := range snap.FrameNames() {
		f, _ := snap.Frame(name)
		info := frameInfo{
			Name:        f.Name(),
			Parent:      f.Parent(),
			SampleCount: f.SampleCount(),
		}
		if first, last, ok := f.SampleRange(); ok {
			info.FirstSample, info.LastSample = first, last
		}
		dump.Frames[name] = info
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(utils.SDump(dump)))
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerEventsSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	events.NewClient(conn)
}
