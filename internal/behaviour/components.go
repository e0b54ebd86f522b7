package behaviour

// ComponentType defines the category of a component
type ComponentType string

const (
	ComponentTypeMesh       ComponentType = "Mesh"
	ComponentTypeCamera     ComponentType = "Camera"
	ComponentTypeController ComponentType = "Controller"
	ComponentTypeCustom     ComponentType = "Custom"
)

// TypedComponent extends Component with type information
type TypedComponent interface {
	Component
	GetComponentType() ComponentType
	GetTypeName() string
}

// MeshComponent binds a renderable model to its GameObject.
type MeshComponent struct {
	BaseComponent
	MeshPath string `yaml:"mesh_path"`

	Model  ModelInterface `yaml:"-"`
	Loaded bool           `yaml:"-"`
}

func NewMeshComponent(path string) *MeshComponent {
	return &MeshComponent{MeshPath: path}
}

func (m *MeshComponent) GetComponentType() ComponentType {
	return ComponentTypeMesh
}

func (m *MeshComponent) GetTypeName() string {
	return "MeshComponent"
}

// SetMesh stores the model and links it to the owning GameObject so the
// ComponentManager keeps both transforms in sync.
func (m *MeshComponent) SetMesh(mesh ModelInterface) {
	m.Model = mesh
	m.Loaded = mesh != nil
	if m.GetGameObject() != nil {
		m.GetGameObject().SetModel(mesh)
	}
}

func (m *MeshComponent) GetMesh() ModelInterface {
	return m.Model
}

// CameraComponent holds camera data
type CameraComponent struct {
	BaseComponent
	FOV    float32
	Near   float32
	Far    float32
	IsMain bool

	// Runtime reference
	CameraData interface{}
}

func NewCameraComponent() *CameraComponent {
	return &CameraComponent{
		FOV:  45.0,
		Near: 0.1,
		Far:  10000.0,
	}
}

func (c *CameraComponent) GetComponentType() ComponentType {
	return ComponentTypeCamera
}

func (c *CameraComponent) GetTypeName() string {
	return "CameraComponent"
}

// Helper function to get component type name
func GetComponentTypeName(comp Component) string {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetTypeName()
	}
	return "Unknown"
}

// Helper function to get component category
func GetComponentCategory(comp Component) ComponentType {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetComponentType()
	}
	return ComponentTypeCustom
}
