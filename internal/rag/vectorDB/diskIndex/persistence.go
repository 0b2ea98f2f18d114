package diskIndex

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/pipelineErrors"
	"github.com/akolanti/GoIndexer/pkg/logger_i"
)

// On-disk layout of an index directory:
//
//	index.vec       header (magic, version, dim, count) followed by raw
//	                little-endian float32 vectors
//	index.meta.json chunk records aligned with the vectors by position
//	manifest.json   written last, its presence marks a complete write
const (
	vectorFileName   = "index.vec"
	metaFileName     = "index.meta.json"
	manifestFileName = "manifest.json"

	magic         = "GIDX"
	formatVersion = 1
)

type manifest struct {
	Version   int       `json:"version"`
	Dim       int       `json:"dim"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) Persist(dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	if err := s.writeVectors(filepath.Join(dir, vectorFileName)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, metaFileName), s.chunks); err != nil {
		return err
	}

	m := manifest{
		Version:   formatVersion,
		Dim:       s.dim,
		Count:     len(s.chunks),
		CreatedAt: time.Now().UTC(),
	}
	if err := writeJSON(filepath.Join(dir, manifestFileName), m); err != nil {
		return err
	}

	s.logger.Info("Persisted index", "dir", dir, "chunks", len(s.chunks), "dim", s.dim)
	return nil
}

func (s *Store) writeVectors(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vector file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 0, 16)
	header = append(header, magic...)
	header = binary.LittleEndian.AppendUint32(header, formatVersion)
	header = binary.LittleEndian.AppendUint32(header, uint32(s.dim))
	header = binary.LittleEndian.AppendUint32(header, uint32(len(s.vectors)))
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("write vector header: %w", err)
	}

	buf := make([]byte, 0, s.dim*4)
	for _, v := range s.vectors {
		buf = buf[:0]
		for _, val := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(val))
		}
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads a persisted index from dir, verifying the manifest against the
// data files before accepting anything.
func Load(dir string) (*Store, error) {
	logger := logger_i.NewLogger("disk_index")

	manifestData, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return nil, pipelineErrors.CorruptIndexError(dir, fmt.Errorf("manifest missing or unreadable: %w", err))
	}
	var m manifest
	if err := json.Unmarshal(manifestData, &m); err != nil {
		return nil, pipelineErrors.CorruptIndexError(dir, fmt.Errorf("manifest malformed: %w", err))
	}
	if m.Version != formatVersion {
		return nil, pipelineErrors.CorruptIndexError(dir, fmt.Errorf("unsupported format version %d", m.Version))
	}

	metaData, err := os.ReadFile(filepath.Join(dir, metaFileName))
	if err != nil {
		return nil, pipelineErrors.CorruptIndexError(dir, err)
	}
	var chunks []commonModels.Chunk
	if err := json.Unmarshal(metaData, &chunks); err != nil {
		return nil, pipelineErrors.CorruptIndexError(dir, fmt.Errorf("chunk metadata malformed: %w", err))
	}
	if len(chunks) != m.Count {
		return nil, pipelineErrors.CorruptIndexError(dir, fmt.Errorf("manifest says %d chunks, metadata has %d", m.Count, len(chunks)))
	}

	vectors, err := readVectors(filepath.Join(dir, vectorFileName), m)
	if err != nil {
		return nil, pipelineErrors.CorruptIndexError(dir, err)
	}

	logger.Info("Loaded index", "dir", dir, "chunks", len(chunks), "dim", m.Dim)
	return &Store{
		dim:     m.Dim,
		chunks:  chunks,
		vectors: vectors,
		logger:  logger,
	}, nil
}

func readVectors(path string, m manifest) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	wantSize := 16 + m.Count*m.Dim*4
	if len(data) != wantSize {
		return nil, fmt.Errorf("vector file is %d bytes, manifest implies %d", len(data), wantSize)
	}
	if string(data[:4]) != magic {
		return nil, errors.New("vector file has wrong magic")
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != formatVersion {
		return nil, fmt.Errorf("vector file has format version %d", v)
	}
	if d := int(binary.LittleEndian.Uint32(data[8:12])); d != m.Dim {
		return nil, fmt.Errorf("vector file dimension %d does not match manifest %d", d, m.Dim)
	}
	if c := int(binary.LittleEndian.Uint32(data[12:16])); c != m.Count {
		return nil, fmt.Errorf("vector file count %d does not match manifest %d", c, m.Count)
	}

	vectors := make([][]float32, m.Count)
	offset := 16
	for i := range vectors {
		v := make([]float32, m.Dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
			offset += 4
		}
		vectors[i] = v
	}
	return vectors, nil
}
