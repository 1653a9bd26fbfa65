package geom

// Transform is a rigid transform: rotate by Basis, then translate by Origin.
type Transform struct {
	Basis  Mat3
	Origin Vec3
}

// IdentityTransform leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Basis: Identity()}
}

// Apply transforms a point.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Basis.Apply(p).Add(t.Origin)
}

// Then returns the transform that applies child first, then t.
func (t Transform) Then(child Transform) Transform {
	return Transform{
		Basis:  t.Basis.Mul(child.Basis),
		Origin: t.Apply(child.Origin),
	}
}

// Node is a transform node in the scene tree. Rotation is in radians,
// applied in XYZ Euler order.
type Node struct {
	Name     string
	Position Vec3
	Rotation Vec3

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// Local returns the node's transform relative to its parent.
func (n *Node) Local() Transform {
	return Transform{Basis: EulerXYZ(n.Rotation), Origin: n.Position}
}

// World returns the node's transform relative to the tree root.
func (n *Node) World() Transform {
	t := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		t = p.Local().Then(t)
	}
	return t
}
