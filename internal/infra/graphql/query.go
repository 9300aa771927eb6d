package graphql

// PostsQuery is the fixed read query issued for the listing. It takes no
// variables; the CMS returns posts in display order.
const PostsQuery = `query GetPosts {
  posts {
    nodes {
      id
      title
      excerpt
      content
      date
      slug
      acffields {
        sourceName
        sourceUrl
      }
      categories {
        nodes {
          name
        }
      }
      featuredImage {
        node {
          sourceUrl
          altText
        }
      }
    }
  }
}`

// request is the POST body sent to the endpoint.
type request struct {
	Query string `json:"query"`
}
