package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// AddRootNode appends node and lists it in the default scene.
func AddRootNode(doc *gltf.Document, node *gltf.Node) uint32 {
	index := AddNode(doc, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, index)
	return index
}

func AddNode(doc *gltf.Document, node *gltf.Node) uint32 {
	doc.Nodes = append(doc.Nodes, node)
	return uint32(len(doc.Nodes) - 1)
}

func AddMesh(doc *gltf.Document, mesh *gltf.Mesh) uint32 {
	doc.Meshes = append(doc.Meshes, mesh)
	return uint32(len(doc.Meshes) - 1)
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
