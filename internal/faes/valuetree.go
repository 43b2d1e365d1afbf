package faes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrMissingFilePart is returned when a data bag references an upload that was not
// sent with the request.
var ErrMissingFilePart = errors.New("faes: referenced file part missing")

// FileRefKey marks an object in a decoded data bag as a reference to an uploaded part:
// {"$file": "<part name>"}.
const FileRefKey = "$file"

// Kind tags a Node.
type Kind int

const (
	KindScalar Kind = iota
	KindFile
	KindArray
	KindObject
)

// File is an upload waiting to be replaced by its stored URL.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Node is a data-bag value tree whose file leaves are still local blobs.
type Node struct {
	Kind   Kind
	Scalar any
	File   *File
	Items  []Node
	Fields map[string]Node
}

// UploadFunc stores one file and returns its URL.
type UploadFunc func(ctx context.Context, f File) (string, error)

// Scalar wraps a JSON scalar.
func Scalar(v any) Node { return Node{Kind: KindScalar, Scalar: v} }

// FileNode wraps a pending upload.
func FileNode(f File) Node { return Node{Kind: KindFile, File: &f} }

// Array wraps ordered items.
func Array(items ...Node) Node { return Node{Kind: KindArray, Items: items} }

// Object wraps keyed children.
func Object(fields map[string]Node) Node { return Node{Kind: KindObject, Fields: fields} }

// BuildTree converts a decoded JSON data bag into a Node tree, resolving
// {"$file": name} references against files.
func BuildTree(v any, files map[string]File) (Node, error) {
	switch x := v.(type) {
	case map[string]any:
		if ref, ok := fileRef(x); ok {
			f, found := files[ref]
			if !found {
				return Node{}, fmt.Errorf("%w: %q", ErrMissingFilePart, ref)
			}
			return FileNode(f), nil
		}
		fields := make(map[string]Node, len(x))
		for k, child := range x {
			n, err := BuildTree(child, files)
			if err != nil {
				return Node{}, err
			}
			fields[k] = n
		}
		return Object(fields), nil
	case []any:
		items := make([]Node, 0, len(x))
		for _, child := range x {
			n, err := BuildTree(child, files)
			if err != nil {
				return Node{}, err
			}
			items = append(items, n)
		}
		return Array(items...), nil
	default:
		return Scalar(x), nil
	}
}

func fileRef(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	ref, ok := m[FileRefKey].(string)
	return ref, ok
}

// Interface returns the plain tree with each pending file standing in as its name.
// It is used to check completeness before uploading.
func (n Node) Interface() any {
	switch n.Kind {
	case KindFile:
		if n.File == nil {
			return nil
		}
		return n.File.Name
	case KindArray:
		out := make([]any, len(n.Items))
		for i, it := range n.Items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.Fields))
		for k, child := range n.Fields {
			out[k] = child.Interface()
		}
		return out
	default:
		return n.Scalar
	}
}

// Files counts the pending uploads in the tree.
func (n Node) Files() int {
	switch n.Kind {
	case KindFile:
		return 1
	case KindArray:
		total := 0
		for _, it := range n.Items {
			total += it.Files()
		}
		return total
	case KindObject:
		total := 0
		for _, child := range n.Fields {
			total += child.Files()
		}
		return total
	default:
		return 0
	}
}

// Flatten walks the tree depth-first, uploading each file leaf and replacing it with
// the returned URL. Object keys are visited in sorted order and uploads run one at a
// time; the first failure aborts the walk. Arrays and nested objects keep their
// shape.
func Flatten(ctx context.Context, n Node, upload UploadFunc) (any, error) {
	return flatten(ctx, n, upload, "")
}

func flatten(ctx context.Context, n Node, upload UploadFunc, at string) (any, error) {
	switch n.Kind {
	case KindFile:
		if n.File == nil {
			return nil, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url, err := upload(ctx, *n.File)
		if err != nil {
			return nil, fmt.Errorf("upload %s (%s): %w", at, n.File.Name, err)
		}
		return url, nil
	case KindArray:
		out := make([]any, len(n.Items))
		for i, it := range n.Items {
			v, err := flatten(ctx, it, upload, at+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindObject:
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			path := k
			if at != "" {
				path = at + "." + k
			}
			v, err := flatten(ctx, n.Fields[k], upload, path)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return n.Scalar, nil
	}
}
