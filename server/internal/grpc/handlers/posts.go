package handlers

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ZzaizZ/goblog/api/blogpb"
	"github.com/ZzaizZ/goblog/internal/auth"
	"github.com/ZzaizZ/goblog/internal/domain/services"
)

// callerID returns the authenticated user id placed by the auth interceptor
func callerID(ctx context.Context) (string, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "not authenticated")
	}
	return user.UserID, nil
}

// CreatePost creates a post owned by the caller
func (h *BlogHandler) CreatePost(ctx context.Context, req *blogpb.CreatePostRequest) (*blogpb.CreatePostResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := h.postService.Create(ctx, userID, req.GetTitle(), req.GetContent())
	if err != nil {
		return nil, serviceError(err)
	}

	return &blogpb.CreatePostResponse{Post: postToProto(post)}, nil
}

// GetPost fetches a single post. Public.
func (h *BlogHandler) GetPost(ctx context.Context, req *blogpb.GetPostRequest) (*blogpb.GetPostResponse, error) {
	if err := services.ValidateUUID(req.GetId()); err != nil {
		return nil, serviceError(err)
	}

	post, err := h.postService.Get(ctx, req.GetId())
	if err != nil {
		return nil, serviceError(err)
	}

	return &blogpb.GetPostResponse{Post: postToProto(post)}, nil
}

// UpdatePost replaces a post's title and content. Author only.
func (h *BlogHandler) UpdatePost(ctx context.Context, req *blogpb.UpdatePostRequest) (*blogpb.UpdatePostResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := services.ValidateUUID(req.GetId()); err != nil {
		return nil, serviceError(err)
	}

	post, err := h.postService.Update(ctx, userID, req.GetId(), req.GetTitle(), req.GetContent())
	if err != nil {
		return nil, serviceError(err)
	}

	return &blogpb.UpdatePostResponse{Post: postToProto(post)}, nil
}

// DeletePost removes a post. Author only.
func (h *BlogHandler) DeletePost(ctx context.Context, req *blogpb.DeletePostRequest) (*blogpb.DeletePostResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := services.ValidateUUID(req.GetId()); err != nil {
		return nil, serviceError(err)
	}

	if err := h.postService.Delete(ctx, userID, req.GetId()); err != nil {
		return nil, serviceError(err)
	}

	return &blogpb.DeletePostResponse{}, nil
}

// ListPosts returns a page of posts, newest first. Public.
func (h *BlogHandler) ListPosts(ctx context.Context, req *blogpb.ListPostsRequest) (*blogpb.ListPostsResponse, error) {
	posts, err := h.postService.List(ctx, int(req.GetPage()), int(req.GetPageSize()))
	if err != nil {
		return nil, serviceError(err)
	}

	resp := &blogpb.ListPostsResponse{Posts: make([]*blogpb.Post, len(posts))}
	for i, post := range posts {
		resp.Posts[i] = postToProto(post)
	}
	return resp, nil
}
