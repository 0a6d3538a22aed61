// Package scene holds the addressable in-memory representation of scene
// entities: the entity model, the query/mutation store both local code and
// remote-origin updates run against, and the declarative document the store
// is populated from at scene-load time.
package scene
