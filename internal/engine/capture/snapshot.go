package capture

import "github.com/Faultbox/groundshadow/internal/engine/scene"

// meshState is the per-mesh state a pass may change.
type meshState struct {
	node       *scene.Node
	colorWrite bool
	visible    bool
}

// snapshot records mesh and receiver state before a pass mutates it.
type snapshot struct {
	meshes          []meshState
	receiver        *scene.Node
	receiverVisible bool
}

func takeSnapshot(s *scene.Scene) *snapshot {
	snap := &snapshot{}
	for _, n := range s.Meshes() {
		st := meshState{node: n, colorWrite: true, visible: n.Visible}
		if n.Material != nil {
			st.colorWrite = n.Material.ColorWrite
		}
		snap.meshes = append(snap.meshes, st)
	}
	if s.Receiver != nil && s.Receiver.Node != nil {
		snap.receiver = s.Receiver.Node
		snap.receiverVisible = s.Receiver.Node.Visible
	}
	return snap
}

func (s *snapshot) restore() {
	for _, st := range s.meshes {
		if st.node.Material != nil {
			st.node.Material.ColorWrite = st.colorWrite
		}
		st.node.Visible = st.visible
	}
	if s.receiver != nil {
		s.receiver.Visible = s.receiverVisible
	}
}
