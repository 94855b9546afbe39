package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/docrag/docrag/internal/domain/entity"
	"github.com/docrag/docrag/internal/domain/repository"
)

// Repository stores chunks as Qdrant points. Chunk content and
// metadata go into the payload; the collection uses cosine distance,
// so Qdrant's score is already higher-is-more-relevant.
type Repository struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
	embedder   repository.Embedder
}

func NewVectorRepository(ctx context.Context, host string, port int, collection string, vectorSize int, embedder repository.Embedder) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant connect: %v", entity.ErrVectorStoreUnavailable, err)
	}
	r := &Repository{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: collection,
		embedder:   embedder,
	}
	if err := r.ensureCollection(ctx, conn, vectorSize); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureCollection(ctx context.Context, conn *grpc.ClientConn, vectorSize int) error {
	collections := pb.NewCollectionsClient(conn)
	_, err := collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: r.collection})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("%w: get collection: %v", entity.ErrVectorStoreUnavailable, err)
	}

	_, err = collections.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(vectorSize),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return nil
}

func (r *Repository) AddDocuments(ctx context.Context, chunks []entity.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings, err := r.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(chunks))
	points := make([]*pb.PointStruct, len(chunks))
	for i, chunk := range chunks {
		ids[i] = uuid.New().String()
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: ids[i]}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: embeddings[i]}}},
			Payload: map[string]*pb.Value{
				"content":        {Kind: &pb.Value_StringValue{StringValue: chunk.Content}},
				"titulo":         {Kind: &pb.Value_StringValue{StringValue: chunk.Metadata.Title}},
				"tipo_documento": {Kind: &pb.Value_StringValue{StringValue: chunk.Metadata.DocumentType}},
				"pagina":         {Kind: &pb.Value_IntegerValue{IntegerValue: int64(chunk.Metadata.PageNumber)}},
			},
		}
	}

	wait := true
	_, err = r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upsert points: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return ids, nil
}

func (r *Repository) SimilaritySearch(ctx context.Context, query string, k int, filter repository.Filter) ([]entity.ScoredChunk, error) {
	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(k),
		Filter:         metadataFilter(filter),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search points: %v", entity.ErrVectorStoreUnavailable, err)
	}

	results := make([]entity.ScoredChunk, 0, len(resp.Result))
	for _, pt := range resp.Result {
		chunk := entity.ScoredChunk{Score: float64(pt.Score)}
		chunk.ID = pt.Id.GetUuid()
		chunk.Content = pt.Payload["content"].GetStringValue()
		chunk.Metadata.Title = pt.Payload["titulo"].GetStringValue()
		chunk.Metadata.DocumentType = pt.Payload["tipo_documento"].GetStringValue()
		chunk.Metadata.PageNumber = int(pt.Payload["pagina"].GetIntegerValue())

		// Content non-emptiness has no server-side predicate without a
		// full-text payload index, so it is applied here.
		if filter.RequireContent && strings.TrimSpace(chunk.Content) == "" {
			continue
		}
		results = append(results, chunk)
	}
	return results, nil
}

func (r *Repository) DocumentExists(ctx context.Context, filter repository.Filter) (bool, error) {
	exact := true
	resp, err := r.points.Count(ctx, &pb.CountPoints{
		CollectionName: r.collection,
		Filter:         metadataFilter(filter),
		Exact:          &exact,
	})
	if err != nil {
		return false, fmt.Errorf("%w: count points: %v", entity.ErrVectorStoreUnavailable, err)
	}
	return resp.Result.Count > 0, nil
}

func (r *Repository) Close() error {
	return r.conn.Close()
}

func metadataFilter(filter repository.Filter) *pb.Filter {
	var must []*pb.Condition
	if filter.Title != "" {
		must = append(must, keywordCondition("titulo", filter.Title))
	}
	if filter.DocumentType != "" {
		must = append(must, keywordCondition("tipo_documento", filter.DocumentType))
	}
	if len(must) == 0 {
		return nil
	}
	return &pb.Filter{Must: must}
}

func keywordCondition(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key:   key,
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: value}},
			},
		},
	}
}

var _ repository.VectorRepository = (*Repository)(nil)
