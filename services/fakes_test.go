package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamoClient implements DynamoAPI with per-call hooks. Calls without a
// hook return an empty result, and every input is recorded for assertions.
type fakeDynamoClient struct {
	GetItemFn            func(ctx context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	PutItemFn            func(ctx context.Context, params *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	UpdateItemFn         func(ctx context.Context, params *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	DeleteItemFn         func(ctx context.Context, params *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	QueryFn              func(ctx context.Context, params *dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	ScanFn               func(ctx context.Context, params *dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	TransactWriteItemsFn func(ctx context.Context, params *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)

	GetItemInputs            []*dynamodb.GetItemInput
	PutItemInputs            []*dynamodb.PutItemInput
	UpdateItemInputs         []*dynamodb.UpdateItemInput
	DeleteItemInputs         []*dynamodb.DeleteItemInput
	QueryInputs              []*dynamodb.QueryInput
	ScanInputs               []*dynamodb.ScanInput
	TransactWriteItemsInputs []*dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.GetItemInputs = append(f.GetItemInputs, params)
	if f.GetItemFn != nil {
		return f.GetItemFn(ctx, params)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.PutItemInputs = append(f.PutItemInputs, params)
	if f.PutItemFn != nil {
		return f.PutItemFn(ctx, params)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.UpdateItemInputs = append(f.UpdateItemInputs, params)
	if f.UpdateItemFn != nil {
		return f.UpdateItemFn(ctx, params)
	}
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{}}, nil
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.DeleteItemInputs = append(f.DeleteItemInputs, params)
	if f.DeleteItemFn != nil {
		return f.DeleteItemFn(ctx, params)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.QueryInputs = append(f.QueryInputs, params)
	if f.QueryFn != nil {
		return f.QueryFn(ctx, params)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.ScanInputs = append(f.ScanInputs, params)
	if f.ScanFn != nil {
		return f.ScanFn(ctx, params)
	}
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeDynamoClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.TransactWriteItemsInputs = append(f.TransactWriteItemsInputs, params)
	if f.TransactWriteItemsFn != nil {
		return f.TransactWriteItemsFn(ctx, params)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func mustMarshalMap(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	return item
}

func mustMarshalList(t *testing.T, vs ...interface{}) []map[string]types.AttributeValue {
	t.Helper()
	items := make([]map[string]types.AttributeValue, 0, len(vs))
	for _, v := range vs {
		items = append(items, mustMarshalMap(t, v))
	}
	return items
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{}
}
