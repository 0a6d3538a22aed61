package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is the declarative scene source the store is populated from at
// load time. The authority reads and writes the same document, so the shape
// round-trips byte-compatible field names.
type Document struct {
	Metadata  Metadata  `json:"metadata"`
	Structure Structure `json:"structure"`
	Objects   []Entity  `json:"objects"`
	Lighting  []Entity  `json:"lighting,omitempty"`
}

// Metadata carries scene-level information, including the bounds the
// authority verifies placements against.
type Metadata struct {
	Name   string     `json:"name,omitempty"`
	Bounds Dimensions `json:"bounds,omitzero"`
}

// Structure holds the structural elements of the scene.
type Structure struct {
	Floor *Entity  `json:"floor,omitempty"`
	Walls []Entity `json:"walls,omitempty"`
}

// Entities flattens the document into store entities in declaration order:
// floor, walls, objects, lights.
func (d Document) Entities() []Entity {
	var entities []Entity
	if d.Structure.Floor != nil {
		entities = append(entities, *d.Structure.Floor)
	}
	entities = append(entities, d.Structure.Walls...)
	entities = append(entities, d.Objects...)
	entities = append(entities, d.Lighting...)
	return entities
}

// LoadDocument reads and decodes a scene document from path.
func LoadDocument(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Document{}, fmt.Errorf("scene document path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read scene document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode scene document: %w", err)
	}
	return doc, nil
}

// SaveDocument encodes and writes a scene document to path, mirroring the
// authority's write-back of accepted mutations.
func SaveDocument(path string, doc Document) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("scene document path is required")
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene document: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write scene document: %w", err)
	}
	return nil
}

// Populate adds every document entity to the store.
func Populate(store *Store, doc Document) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	for _, entity := range doc.Entities() {
		if _, err := store.Add(entity); err != nil {
			return fmt.Errorf("populate scene: %w", err)
		}
	}
	return nil
}

// Snapshot rebuilds a document from the store's current entities, grouped
// back into structure, objects, and lighting.
func Snapshot(store *Store, metadata Metadata) Document {
	doc := Document{Metadata: metadata}
	if store == nil {
		return doc
	}
	for _, entity := range store.Entities() {
		entity := entity
		switch entity.Kind {
		case KindStructural:
			if doc.Structure.Floor == nil && strings.HasPrefix(entity.ID, "floor") {
				doc.Structure.Floor = &entity
				continue
			}
			doc.Structure.Walls = append(doc.Structure.Walls, entity)
		case KindLight:
			doc.Lighting = append(doc.Lighting, entity)
		default:
			doc.Objects = append(doc.Objects, entity)
		}
	}
	return doc
}
