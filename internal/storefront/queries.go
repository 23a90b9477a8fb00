package storefront

const predictiveSearchQuery = `
fragment PredictiveArticle on Article {
  __typename
  id
  title
  handle
  blog {
    handle
  }
  image {
    url
    altText
    width
    height
  }
  trackingParameters
}
fragment PredictiveCollection on Collection {
  __typename
  id
  title
  handle
  image {
    url
    altText
    width
    height
  }
  trackingParameters
}
fragment PredictivePage on Page {
  __typename
  id
  title
  handle
  trackingParameters
}
fragment PredictiveProduct on Product {
  __typename
  id
  title
  handle
  trackingParameters
  variants(first: 1) {
    nodes {
      id
      image {
        url
        altText
        width
        height
      }
      price {
        amount
        currencyCode
      }
    }
  }
}
fragment PredictiveQuery on SearchQuerySuggestion {
  __typename
  text
  styledText
  trackingParameters
}
query predictiveSearch(
  $country: CountryCode
  $language: LanguageCode
  $limit: Int!
  $limitScope: PredictiveSearchLimitScope!
  $searchTerm: String!
  $types: [PredictiveSearchType!]
) @inContext(country: $country, language: $language) {
  predictiveSearch(
    limit: $limit,
    limitScope: $limitScope,
    query: $searchTerm,
    types: $types,
  ) {
    articles {
      ...PredictiveArticle
    }
    collections {
      ...PredictiveCollection
    }
    pages {
      ...PredictivePage
    }
    products {
      ...PredictiveProduct
    }
    queries {
      ...PredictiveQuery
    }
  }
}
`

const searchQuery = `
fragment SearchProduct on Product {
  __typename
  handle
  id
  publishedAt
  title
  trackingParameters
  vendor
  variants(first: 1) {
    nodes {
      id
      image {
        url
        altText
        width
        height
      }
      price {
        amount
        currencyCode
      }
      compareAtPrice {
        amount
        currencyCode
      }
      selectedOptions {
        name
        value
      }
    }
  }
}
fragment SearchPage on Page {
  __typename
  handle
  id
  title
  trackingParameters
}
fragment SearchArticle on Article {
  __typename
  handle
  id
  title
  trackingParameters
}
query search(
  $country: CountryCode
  $endCursor: String
  $first: Int
  $language: LanguageCode
  $last: Int
  $query: String!
  $startCursor: String
  $productFilters: [ProductFilter!]
  $pagesFirst: Int!
  $articlesFirst: Int!
) @inContext(country: $country, language: $language) {
  products: search(
    query: $query,
    unavailableProducts: HIDE,
    types: [PRODUCT],
    first: $first,
    sortKey: RELEVANCE,
    last: $last,
    before: $startCursor,
    after: $endCursor,
    productFilters: $productFilters
  ) {
    totalCount
    nodes {
      ...on Product {
        ...SearchProduct
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
  pages: search(
    query: $query,
    types: [PAGE],
    first: $pagesFirst
  ) {
    totalCount
    nodes {
      ...on Page {
        ...SearchPage
      }
    }
  }
  articles: search(
    query: $query,
    types: [ARTICLE],
    first: $articlesFirst
  ) {
    totalCount
    nodes {
      ...on Article {
        ...SearchArticle
      }
    }
  }
}
`

const pageQuery = `
query Page(
  $language: LanguageCode,
  $country: CountryCode,
  $handle: String!
)
@inContext(language: $language, country: $country) {
  page(handle: $handle) {
    id
    handle
    title
    body
    seo {
      description
      title
    }
  }
}
`

const productVariantFragment = `
fragment ProductVariant on ProductVariant {
  availableForSale
  compareAtPrice {
    amount
    currencyCode
  }
  id
  image {
    url
    altText
    width
    height
  }
  price {
    amount
    currencyCode
  }
  selectedOptions {
    name
    value
  }
  sku
  title
  unitPrice {
    amount
    currencyCode
  }
}
`

const productQuery = `
query Product(
  $country: CountryCode
  $handle: String!
  $language: LanguageCode
  $selectedOptions: [SelectedOptionInput!]!
) @inContext(country: $country, language: $language) {
  product(handle: $handle) {
    id
    title
    vendor
    handle
    tags
    descriptionHtml
    description
    options {
      name
      values
    }
    images(first: 20) {
      edges {
        node {
          url
          altText
          width
          height
        }
      }
    }
    selectedVariant: variantBySelectedOptions(selectedOptions: $selectedOptions) {
      ...ProductVariant
    }
    variants(first: 1) {
      nodes {
        ...ProductVariant
      }
    }
    seo {
      description
      title
    }
  }
}
` + productVariantFragment

const productVariantsQuery = `
query ProductVariants(
  $country: CountryCode
  $language: LanguageCode
  $handle: String!
) @inContext(country: $country, language: $language) {
  product(handle: $handle) {
    variants(first: 250) {
      nodes {
        ...ProductVariant
      }
    }
  }
}
` + productVariantFragment

const collectionByHandleQuery = `
query CollectionByHandle(
  $country: CountryCode
  $language: LanguageCode
  $handle: String!
) @inContext(country: $country, language: $language) {
  collectionByHandle(handle: $handle) {
    id
    title
    handle
    image {
      url
      width
      height
      altText
    }
  }
}
`
