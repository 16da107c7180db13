/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package osprey

import (
	"context"
	"sync"

	"github.com/tomoncle/osprey/command"
	"github.com/tomoncle/osprey/database"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/repository"
	"github.com/tomoncle/osprey/store"
	"github.com/tomoncle/osprey/store/bunstore"
	"github.com/tomoncle/osprey/types"
	"github.com/tomoncle/osprey/uow"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// GetOne returns the first (or last) entity matching the builder.
	GetOne(ctx context.Context, b *query.SingleBuilder[T]) (*T, error)

	// Exists reports whether any entity matches the builder.
	Exists(ctx context.Context, b *query.SingleBuilder[T]) (bool, error)

	// Count returns the number of entities matching the builder's filters.
	Count(ctx context.Context, b *query.RangeBuilder[T]) (int, error)

	// List returns the entities matching the range builder.
	List(ctx context.Context, b *query.RangeBuilder[T]) ([]*T, error)

	// Page returns the paginated subset with the total match count.
	Page(ctx context.Context, b *query.RangeBuilder[T]) (*types.Chunk[T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, actor string, model ...*T) (int, error)

	// Update persists mutations made to existing entities.
	Update(ctx context.Context, actor string, model ...*T) (int, error)

	// Delete soft-deletes an entity by its identifier.
	Delete(ctx context.Context, id any) (int, error)

	// DeleteDirectly physically deletes an entity by its identifier.
	DeleteDirectly(ctx context.Context, id any) (int, error)

	// Restore reverses a soft delete on the given entities.
	Restore(ctx context.Context, actor string, model ...*T) (int, error)

	// Repo exposes the full repository surface for builder-level control.
	Repo() repository.Repository[T]

	// Bound returns a repository view whose deferred commands stage onto
	// the given unit of work.
	Bound(u *uow.UnitOfWork) repository.Repository[T]

	// UnitOfWork creates a unit of work over the service's store.
	UnitOfWork() *uow.UnitOfWork
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
	once sync.Once
}

// NewService returns a default Service implementation using the generic
// repository backed by the global database connection.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{}
}

// NewServiceWithAdapter returns a Service over an explicit store adapter,
// useful for the in-memory store or a dedicated connection.
func NewServiceWithAdapter[T any](adapter store.Adapter[T]) Service[T] {
	s := &baseServiceImpl[T]{repo: repository.NewRepository[T](adapter)}
	s.once.Do(func() {})
	return s
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.NewRepository[T](bunstore.New[T](database.GetDB())) })
	return s.repo
}

func (s *baseServiceImpl[T]) Repo() repository.Repository[T] {
	return s.baseRepo()
}

func (s *baseServiceImpl[T]) Bound(u *uow.UnitOfWork) repository.Repository[T] {
	return s.baseRepo().Bind(u)
}

func (s *baseServiceImpl[T]) UnitOfWork() *uow.UnitOfWork {
	return uow.New(s.baseRepo().Adapter())
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().GetByID(ctx, id)
}

func (s *baseServiceImpl[T]) GetOne(ctx context.Context, b *query.SingleBuilder[T]) (*T, error) {
	return s.baseRepo().Get(ctx, b)
}

func (s *baseServiceImpl[T]) Exists(ctx context.Context, b *query.SingleBuilder[T]) (bool, error) {
	return s.baseRepo().Check(ctx, b)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, b *query.RangeBuilder[T]) (int, error) {
	return s.baseRepo().Count(ctx, b)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, b *query.RangeBuilder[T]) ([]*T, error) {
	return s.baseRepo().GetRange(ctx, b)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, b *query.RangeBuilder[T]) (*types.Chunk[T], error) {
	return s.baseRepo().GetRangeEntire(ctx, b)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, actor string, model ...*T) (int, error) {
	return s.baseRepo().Add(ctx, command.NewAdd[T]().WithEntity(model...).WithActor(actor))
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, actor string, model ...*T) (int, error) {
	return s.baseRepo().Update(ctx, command.NewUpdate[T]().WithEntity(model...).WithActor(actor))
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) (int, error) {
	return s.baseRepo().Remove(ctx, command.NewRemove[T]().WithIdentifier(id))
}

func (s *baseServiceImpl[T]) DeleteDirectly(ctx context.Context, id any) (int, error) {
	return s.baseRepo().Remove(ctx, command.NewRemove[T]().WithIdentifier(id).WithExecuteDirectly())
}

func (s *baseServiceImpl[T]) Restore(ctx context.Context, actor string, model ...*T) (int, error) {
	return s.baseRepo().Restore(ctx, command.NewRestore[T]().WithEntity(model...).WithActor(actor))
}
