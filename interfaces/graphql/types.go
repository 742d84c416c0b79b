package graphql

import (
	"context"

	"graphryder-api/application/loaders"
	"graphryder-api/domain/graph"
	pkgerrors "graphryder-api/pkg/errors"
)

// nodeResolver carries the fields every forum entity shares.
type nodeResolver struct {
	n *graph.Node
}

func (r nodeResolver) ID() int32          { return graph.ClampInt32(r.n.ID) }
func (r nodeResolver) DiscourseID() int32 { return r.n.Int("discourse_id") }
func (r nodeResolver) Platform() string   { return r.n.String("platform") }
func (r nodeResolver) CreatedAt() string  { return r.n.String("created_at") }
func (r nodeResolver) UpdatedAt() string  { return r.n.String("updated_at") }

// related follows one relationship through the request's loader.
func related[T any](ctx context.Context, parent *graph.Node, rel graph.Relation, wrap func(*graph.Node) T) (*[]T, error) {
	loader := loaders.FromContext(ctx)
	if loader == nil {
		return nil, pkgerrors.NewInternalError("no relation loader in request context")
	}
	nodes, err := loader.LoadRelated(ctx, parent.ID, rel)
	if err != nil {
		return nil, err
	}
	return wrapAll(nodes, wrap), nil
}

type groupResolver struct{ nodeResolver }

func newGroup(n *graph.Node) *groupResolver { return &groupResolver{nodeResolver{n}} }

func (r *groupResolver) Name() string { return r.n.String("name") }

func (r *groupResolver) HasAccess(ctx context.Context) (*[]*categoryResolver, error) {
	return related(ctx, r.n, graph.GroupHasAccess, newCategory)
}

func (r *groupResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.GroupUsers, newUser)
}

type userResolver struct{ nodeResolver }

func newUser(n *graph.Node) *userResolver { return &userResolver{nodeResolver{n}} }

func (r *userResolver) Consent() string        { return r.n.String("consent") }
func (r *userResolver) ConsentUpdated() string { return r.n.String("consent_updated") }
func (r *userResolver) Email() string          { return r.n.String("email") }
func (r *userResolver) Groups() string         { return r.n.String("groups") }
func (r *userResolver) Username() string       { return r.n.String("username") }

func (r *userResolver) InGroup(ctx context.Context) (*[]*groupResolver, error) {
	return related(ctx, r.n, graph.UserInGroup, newGroup)
}

func (r *userResolver) IsGlobalUser(ctx context.Context) (*[]*globalUserResolver, error) {
	return related(ctx, r.n, graph.UserIsGlobalUser, newGlobalUser)
}

func (r *userResolver) Created(ctx context.Context) (*[]*postResolver, error) {
	return related(ctx, r.n, graph.UserCreated, newPost)
}

func (r *userResolver) TalkedTo(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.UserTalkedTo, newUser)
}

func (r *userResolver) TalkedOrQuoted(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.UserTalkedOrQuoted, newUser)
}

func (r *userResolver) Likes(ctx context.Context) (*[]*postResolver, error) {
	return related(ctx, r.n, graph.UserLikes, newPost)
}

func (r *userResolver) UsedCode(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.UserUsedCode, newCode)
}

type globalUserResolver struct{ nodeResolver }

func newGlobalUser(n *graph.Node) *globalUserResolver {
	return &globalUserResolver{nodeResolver{n}}
}

func (r *globalUserResolver) Email() string    { return r.n.String("email") }
func (r *globalUserResolver) Username() string { return r.n.String("username") }

func (r *globalUserResolver) HasAccountOn(ctx context.Context) (*[]*platformResolver, error) {
	return related(ctx, r.n, graph.GlobalUserHasAccountOn, newPlatform)
}

func (r *globalUserResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.GlobalUserUsers, newUser)
}

// tagResolver also serves corpus_tag nodes returned by corpusByPlatform.
type tagResolver struct{ nodeResolver }

func newTag(n *graph.Node) *tagResolver { return &tagResolver{nodeResolver{n}} }

func (r *tagResolver) Name() string      { return r.n.String("name") }
func (r *tagResolver) TopicCount() int32 { return r.n.Int("topic_count") }

func (r *tagResolver) Topics(ctx context.Context) (*[]*topicResolver, error) {
	return related(ctx, r.n, graph.TagTopics, newTopic)
}

func (r *tagResolver) Codes(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.TagCodes, newCode)
}

type categoryResolver struct{ nodeResolver }

func newCategory(n *graph.Node) *categoryResolver { return &categoryResolver{nodeResolver{n}} }

func (r *categoryResolver) CreatedAt() *string       { return r.n.StringPtr("created_at") }
func (r *categoryResolver) UpdatedAt() *string       { return r.n.StringPtr("updated_at") }
func (r *categoryResolver) Name() *string            { return r.n.StringPtr("name") }
func (r *categoryResolver) NameLower() *string       { return r.n.StringPtr("name_lower") }
func (r *categoryResolver) ParentCategoryID() *int32 { return r.n.IntPtr("parent_category_id") }
func (r *categoryResolver) Permissions() *string     { return r.n.StringPtr("permissions") }
func (r *categoryResolver) ReadRestricted() *bool    { return r.n.BoolPtr("read_restricted") }

func (r *categoryResolver) ParentCategoryOf(ctx context.Context) (*[]*categoryResolver, error) {
	return related(ctx, r.n, graph.CategoryParentCategoryOf, newCategory)
}

func (r *categoryResolver) Groups(ctx context.Context) (*[]*groupResolver, error) {
	return related(ctx, r.n, graph.CategoryGroups, newGroup)
}

func (r *categoryResolver) Topics(ctx context.Context) (*[]*topicResolver, error) {
	return related(ctx, r.n, graph.CategoryTopics, newTopic)
}

type topicResolver struct{ nodeResolver }

func newTopic(n *graph.Node) *topicResolver { return &topicResolver{nodeResolver{n}} }

func (r *topicResolver) CategoryID() int32     { return r.n.Int("category_id") }
func (r *topicResolver) IsMessageThread() bool { return r.n.Bool("is_message_thread") }
func (r *topicResolver) Tags() string          { return r.n.String("tags") }
func (r *topicResolver) Title() string         { return r.n.String("title") }
func (r *topicResolver) UserID() int32         { return r.n.Int("user_id") }

func (r *topicResolver) InCategory(ctx context.Context) (*[]*categoryResolver, error) {
	return related(ctx, r.n, graph.TopicInCategory, newCategory)
}

func (r *topicResolver) TaggedWith(ctx context.Context) (*[]*tagResolver, error) {
	return related(ctx, r.n, graph.TopicTaggedWith, newTag)
}

func (r *topicResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.TopicUsers, newUser)
}

func (r *topicResolver) Posts(ctx context.Context) (*[]*postResolver, error) {
	return related(ctx, r.n, graph.TopicPosts, newPost)
}

type postResolver struct{ nodeResolver }

func newPost(n *graph.Node) *postResolver { return &postResolver{nodeResolver{n}} }

func (r *postResolver) DeletedAt() *string { return r.n.StringPtr("deleted_at") }
func (r *postResolver) Hidden() bool       { return r.n.Bool("hidden") }
func (r *postResolver) LikeCount() int32   { return r.n.Int("like_count") }
func (r *postResolver) PostNumber() int32  { return r.n.Int("post_number") }
func (r *postResolver) QuoteCount() int32  { return r.n.Int("quote_count") }
func (r *postResolver) Raw() string        { return r.n.String("raw") }
func (r *postResolver) Reads() int32       { return r.n.Int("reads") }
func (r *postResolver) ReplyCount() int32  { return r.n.Int("reply_count") }
func (r *postResolver) Score() string      { return r.n.String("score") }
func (r *postResolver) TopicID() int32     { return r.n.Int("topic_id") }
func (r *postResolver) UserID() int32      { return r.n.Int("user_id") }
func (r *postResolver) Wiki() bool         { return r.n.Bool("wiki") }
func (r *postResolver) WordCount() int32   { return r.n.Int("word_count") }

func (r *postResolver) InTopic(ctx context.Context) (*[]*topicResolver, error) {
	return related(ctx, r.n, graph.PostInTopic, newTopic)
}

func (r *postResolver) IsReplyTo(ctx context.Context) (*[]*postResolver, error) {
	return related(ctx, r.n, graph.PostIsReplyTo, newPost)
}

func (r *postResolver) ContainsQuoteFrom(ctx context.Context) (*[]*postResolver, error) {
	return related(ctx, r.n, graph.PostContainsQuoteFrom, newPost)
}

func (r *postResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.PostUsers, newUser)
}

func (r *postResolver) Annotations(ctx context.Context) (*[]*annotationResolver, error) {
	return related(ctx, r.n, graph.PostAnnotations, newAnnotation)
}

type languageResolver struct{ nodeResolver }

func newLanguage(n *graph.Node) *languageResolver { return &languageResolver{nodeResolver{n}} }

func (r *languageResolver) Locale() string { return r.n.String("locale") }
func (r *languageResolver) Name() string   { return r.n.String("name") }

func (r *languageResolver) Codenames(ctx context.Context) (*[]*codeNameResolver, error) {
	return related(ctx, r.n, graph.LanguageCodeNames, newCodeName)
}

type codeResolver struct{ nodeResolver }

func newCode(n *graph.Node) *codeResolver { return &codeResolver{nodeResolver{n}} }

func (r *codeResolver) Ancestry() *string       { return r.n.StringPtr("ancestry") }
func (r *codeResolver) AnnotationsCount() int32 { return r.n.Int("annotations_count") }
func (r *codeResolver) CreatorID() int32        { return r.n.Int("creator_id") }
func (r *codeResolver) Description() *string    { return r.n.StringPtr("description") }
func (r *codeResolver) Name() *string           { return r.n.StringPtr("name") }

func (r *codeResolver) OnPlatform(ctx context.Context) (*[]*platformResolver, error) {
	return related(ctx, r.n, graph.CodeOnPlatform, newPlatform)
}

func (r *codeResolver) HasParentCode(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.CodeHasParentCode, newCode)
}

func (r *codeResolver) HasCodename(ctx context.Context) (*[]*codeNameResolver, error) {
	return related(ctx, r.n, graph.CodeHasCodeName, newCodeName)
}

func (r *codeResolver) Cooccurs(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.CodeCooccurs, newCode)
}

func (r *codeResolver) Annotations(ctx context.Context) (*[]*annotationResolver, error) {
	return related(ctx, r.n, graph.CodeAnnotations, newAnnotation)
}

func (r *codeResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	return related(ctx, r.n, graph.CodeUsers, newUser)
}

type codeNameResolver struct{ nodeResolver }

func newCodeName(n *graph.Node) *codeNameResolver { return &codeNameResolver{nodeResolver{n}} }

func (r *codeNameResolver) CodeID() int32     { return r.n.Int("code_id") }
func (r *codeNameResolver) LanguageID() int32 { return r.n.Int("language_id") }
func (r *codeNameResolver) Name() string      { return r.n.String("name") }

func (r *codeNameResolver) InLanguage(ctx context.Context) (*[]*languageResolver, error) {
	return related(ctx, r.n, graph.CodeNameInLanguage, newLanguage)
}

func (r *codeNameResolver) Codes(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.CodeNameCodes, newCode)
}

type annotationResolver struct{ nodeResolver }

func newAnnotation(n *graph.Node) *annotationResolver { return &annotationResolver{nodeResolver{n}} }

func (r *annotationResolver) CodeID() *int32   { return r.n.IntPtr("code_id") }
func (r *annotationResolver) CreatorID() int32 { return r.n.Int("creator_id") }
func (r *annotationResolver) PostID() int32    { return r.n.Int("post_id") }
func (r *annotationResolver) Quote() *string   { return r.n.StringPtr("quote") }
func (r *annotationResolver) Text() *string    { return r.n.StringPtr("text") }
func (r *annotationResolver) TopicID() int32   { return r.n.Int("topic_id") }
func (r *annotationResolver) Type() string     { return r.n.String("type") }

func (r *annotationResolver) RefersTo(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.AnnotationRefersTo, newCode)
}

func (r *annotationResolver) Annotates(ctx context.Context) (*[]*postResolver, error) {
	return related(ctx, r.n, graph.AnnotationAnnotates, newPost)
}

// platformResolver has every scalar nullable, the identity included.
type platformResolver struct{ nodeResolver }

func newPlatform(n *graph.Node) *platformResolver { return &platformResolver{nodeResolver{n}} }

func (r *platformResolver) ID() *int32 {
	id := graph.ClampInt32(r.n.ID)
	return &id
}

func (r *platformResolver) Name() *string { return r.n.StringPtr("name") }
func (r *platformResolver) URL() *string  { return r.n.StringPtr("url") }

func (r *platformResolver) Codes(ctx context.Context) (*[]*codeResolver, error) {
	return related(ctx, r.n, graph.PlatformCodes, newCode)
}

func (r *platformResolver) Globalusers(ctx context.Context) (*[]*globalUserResolver, error) {
	return related(ctx, r.n, graph.PlatformGlobalUsers, newGlobalUser)
}
