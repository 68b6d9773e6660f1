package predictor

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/poiesic/strategit/core"
)

// Snapshot is the serialized form of a predictor: model parameters plus
// the outcome history it was trained on.
type Snapshot struct {
	Means      []float64
	Stds       []float64
	Coefs      [][]float64
	Confidence float64
	Trained    bool
	Records    []core.StrategyRecord
}

// Restorer is implemented by histories that can be rehydrated from a
// snapshot. *ledger.Ledger implements it.
type Restorer interface {
	Restore(records []core.StrategyRecord)
}

// SaveSnapshot writes the model and history to path as a MessagePack blob.
func (p *Predictor) SaveSnapshot(path string) error {
	p.mu.RLock()
	snapshot := Snapshot{
		Means:      p.model.Means,
		Stds:       p.model.Stds,
		Coefs:      p.model.Coefs,
		Confidence: p.model.Confidence,
		Trained:    p.model.Trained,
	}
	p.mu.RUnlock()

	snapshot.Records = p.history.Snapshot()

	blob, err := msgpack.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, blob, 0644); err != nil {
		return err
	}

	p.logger.Info("snapshot saved", "path", path, "records", len(snapshot.Records), "trained", snapshot.Trained)
	return nil
}

// LoadSnapshot restores model state from a snapshot file. If the history
// supports restoration and is currently empty, the snapshot's records are
// loaded into it as well. On error the predictor is left unchanged and
// keeps answering with the rule-based strategy.
func (p *Predictor) LoadSnapshot(path string) error {
	snapshot, err := ReadSnapshot(path)
	if err != nil {
		return err
	}

	if restorer, ok := p.history.(Restorer); ok && p.history.Size() == 0 {
		restorer.Restore(snapshot.Records)
	}

	p.mu.Lock()
	p.model = ridgeModel{
		Means:      snapshot.Means,
		Stds:       snapshot.Stds,
		Coefs:      snapshot.Coefs,
		Confidence: snapshot.Confidence,
		Trained:    snapshot.Trained,
	}
	p.mu.Unlock()

	p.logger.Info("snapshot loaded", "path", path, "records", len(snapshot.Records), "trained", snapshot.Trained)
	return nil
}

// ReadSnapshot decodes a snapshot file without touching any predictor.
func ReadSnapshot(path string) (Snapshot, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return snapshot, nil
}
