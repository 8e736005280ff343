package vector

import (
	"context"
	"fmt"

	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"mizan/internal/constants"
)

const (
	DefaultCollection = "mizan"
	MaxResultsLimit   = 10
)

// Db - Qdrant collection holding one point per hadith
type Db struct {
	Client      qdrant.PointsClient
	collections qdrant.CollectionsClient
	conn        *grpc.ClientConn
	collection  string
}

// Connect - Dial qdrant's gRPC port (6334, 6333 is the http one). The collection is created lazily by EnsureCollection.
func Connect(addr string, collection string) (*Db, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}

	return &Db{
		Client:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		conn:        conn,
		collection:  collection,
	}, nil
}

func (db *Db) Close() error {
	return db.conn.Close()
}

// EnsureCollection - create the collection for vectors of the given size, only if it's not there yet
func (db *Db) EnsureCollection(ctx context.Context, size uint64) error {
	_, err := db.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: db.collection})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return err
	}

	_, err = db.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     size,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	return err
}

// PointID - stable id for a hadith, so re-indexing overwrites instead of duplicating
func PointID(ref constants.HadithRef) string {
	key := fmt.Sprintf("%d/%d/%d/%d", ref.Volume, ref.ChapterNum, ref.SectionNum, ref.HadithNum)
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(key)).String()
}

func intValue(v int) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(v)}}
}

func (db *Db) Add(ctx context.Context, batch []constants.HadithEmbedding) error {
	points := make([]*qdrant.PointStruct, len(batch))
	for i, hadith := range batch {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(hadith.HadithRef)),
			Vectors: qdrant.NewVectors(hadith.Embedding...),
			Payload: map[string]*qdrant.Value{
				"Volume":  intValue(hadith.Volume),
				"Chapter": intValue(hadith.ChapterNum),
				"Section": intValue(hadith.SectionNum),
				"Hadith":  intValue(hadith.HadithNum),
				"Content": {Kind: &qdrant.Value_StringValue{StringValue: hadith.Content}},
			},
		}
	}

	upsert, err := db.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
	})
	if err != nil {
		return err
	}
	getStatus := upsert.GetResult().GetStatus()
	if getStatus != qdrant.UpdateStatus_Acknowledged && getStatus != qdrant.UpdateStatus_Completed {
		return fmt.Errorf("error adding ahadith to vector db. status: %d", getStatus)
	}
	return nil
}

func (db *Db) Search(ctx context.Context, embedding []float32, limit uint64) ([]constants.HadithEmbeddingResponse, error) {
	if limit == 0 || limit > MaxResultsLimit {
		limit = MaxResultsLimit
	}
	resp, err := db.Client.Search(ctx, &qdrant.SearchPoints{
		CollectionName: db.collection,
		Vector:         embedding,
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	found := make([]constants.HadithEmbeddingResponse, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		payload := point.GetPayload()
		if payload == nil {
			return nil, fmt.Errorf("payload is nil")
		}
		found = append(found, constants.HadithEmbeddingResponse{
			HadithRef: constants.HadithRef{
				Volume:     int(payload["Volume"].GetIntegerValue()),
				ChapterNum: int(payload["Chapter"].GetIntegerValue()),
				SectionNum: int(payload["Section"].GetIntegerValue()),
				HadithNum:  int(payload["Hadith"].GetIntegerValue()),
			},
			Content: payload["Content"].GetStringValue(),
			Score:   point.GetScore(),
		})
	}
	return found, nil
}

// Count - exact number of points in the collection
func (db *Db) Count(ctx context.Context) (uint64, error) {
	resp, err := db.Client.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Exact:          proto.Bool(true),
	})
	if err != nil {
		return 0, err
	}
	return resp.GetResult().GetCount(), nil
}
