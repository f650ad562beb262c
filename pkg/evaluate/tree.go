package evaluate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrNotDirectory is returned when the project root is missing or is not a directory.
var ErrNotDirectory = errors.New("project path is not a directory")

// Structure is the kind of a tree node.
type Structure string

// Node kinds.
const (
	StructureDirectory Structure = "directory"
	StructureFile      Structure = "file"
)

// Node mirrors one directory or file of the project.
type Node struct {
	Name      string
	Structure Structure
	Stats     Stats
	// Children is set on directories, ordered by name.
	Children []*Node
	// Comments is set on files: the rows whose path equals the file path.
	Comments []Row
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool {
	return n.Structure == StructureDirectory
}

// Walk visits n and its descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

type builder struct {
	rows     []Row
	opts     Options
	accepted map[string]struct{}
	sem      *semaphore.Weighted

	mu       sync.Mutex
	warnings []string
}

// Build walks the directory tree under root and returns its report tree.
// Directories without surviving children are pruned. Files are kept when
// their extension is accepted, even with no comments. Unreadable
// directories are skipped and reported as warnings.
func Build(ctx context.Context, root string, rows []Row, opts Options) (*Node, []string, error) {
	opts = opts.withDefaults()
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotDirectory, root, err)
	}

	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	b := &builder{
		rows:     rows,
		opts:     opts,
		accepted: make(map[string]struct{}, len(opts.AcceptedExtensions)),
		sem:      semaphore.NewWeighted(int64(opts.Workers)),
	}

	for _, ext := range opts.AcceptedExtensions {
		b.accepted[strings.ToLower(ext)] = struct{}{}
	}

	node, ok, err := b.build(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		// An empty project still yields a root node.
		node = &Node{
			Name:      filepath.Base(root),
			Structure: StructureDirectory,
			Stats:     Aggregate(nil, opts.Columns),
			Children:  []*Node{},
		}
	}

	slices.Sort(b.warnings)

	return node, b.warnings, nil
}

// build returns ok=false when path is pruned.
func (b *builder) build(ctx context.Context, path string) (*Node, bool, error) {
	err := ctx.Err()
	if err != nil {
		return nil, false, err
	}

	info, err := os.Lstat(path)
	if err != nil {
		b.warn(fmt.Sprintf("stat %s: %v", path, err))

		return nil, false, nil
	}

	if info.IsDir() {
		return b.buildDir(ctx, path)
	}

	return b.buildFile(ctx, path)
}

func (b *builder) buildDir(ctx context.Context, path string) (*Node, bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		b.warn(fmt.Sprintf("read directory %s: %v", path, err))

		return nil, false, nil
	}

	slices.SortFunc(entries, func(a, c os.DirEntry) int {
		return strings.Compare(a.Name(), c.Name())
	})

	built := make([]*Node, len(entries))
	g, gctx := errgroup.WithContext(ctx)

	for i, e := range entries {
		child := filepath.Join(path, e.Name())

		task := func() error {
			node, ok, childErr := b.build(gctx, child)
			if childErr != nil {
				return childErr
			}

			if ok {
				built[i] = node
			}

			return nil
		}

		if !b.sem.TryAcquire(1) {
			// No free slot: build inline so recursion never waits on itself.
			err = task()
			if err != nil {
				return nil, false, err
			}

			continue
		}

		g.Go(func() error {
			defer b.sem.Release(1)

			return task()
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, false, err
	}

	children := make([]*Node, 0, len(built))

	for _, n := range built {
		if n != nil {
			children = append(children, n)
		}
	}

	if len(children) == 0 {
		return nil, false, nil
	}

	return &Node{
		Name:      filepath.Base(path),
		Structure: StructureDirectory,
		Stats:     b.aggregate(path),
		Children:  children,
	}, true, nil
}

func (b *builder) buildFile(ctx context.Context, path string) (*Node, bool, error) {
	if _, ok := b.accepted[strings.ToLower(filepath.Ext(path))]; !ok {
		return nil, false, nil
	}

	key := filepath.ToSlash(path)
	comments := make([]Row, 0)

	for i := range b.rows {
		if b.rows[i].Path == key {
			comments = append(comments, b.rows[i])
		}
	}

	b.opts.Metrics.FilesProcessed(ctx, 1)

	return &Node{
		Name:      filepath.Base(path),
		Structure: StructureFile,
		Stats:     b.aggregate(path),
		Comments:  comments,
	}, true, nil
}

func (b *builder) aggregate(path string) Stats {
	return Aggregate(b.opts.Scope.Select(b.rows, filepath.ToSlash(path)), b.opts.Columns)
}

func (b *builder) warn(msg string) {
	b.opts.Logger.Warn("skipping path", "reason", msg)

	b.mu.Lock()
	b.warnings = append(b.warnings, msg)
	b.mu.Unlock()
}
