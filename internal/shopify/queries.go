package shopify

// ProductSearchQuery searches products by a Shopify search expression
// (e.g. `title:*lamp* OR title:lamp*`)
const ProductSearchQuery = `
query searchProducts($query: String!, $first: Int!) {
  products(first: $first, query: $query) {
    edges {
      node {
        id
        title
        handle
        status
        variants(first: 10) {
          edges {
            node {
              id
              title
              price
              sku
            }
          }
        }
      }
    }
  }
}
`

// ProductMetafieldsQuery fetches a product's metafields. Metaobject references
// (e.g. custom.technical_information_s) come back as a JSON list of GIDs in value.
const ProductMetafieldsQuery = `
query productMetafields($id: ID!) {
  product(id: $id) {
    id
    metafields(first: 50) {
      edges {
        node {
          namespace
          key
          type
          value
        }
      }
    }
  }
}
`

// MetaobjectQuery fetches the fields of one metaobject
const MetaobjectQuery = `
query metaobject($id: ID!) {
  metaobject(id: $id) {
    id
    type
    fields {
      key
      value
    }
  }
}
`

// ShopQuery is the cheapest query that proves the token works
const ShopQuery = `
query {
  shop {
    name
    myshopifyDomain
  }
}
`
