package storefront

// cartFields はカート関連のクエリ・ミューテーションで共通のフィールド選択。
const cartFields = `
id
checkoutUrl
cost {
  subtotalAmount {
    amount
    currencyCode
  }
  totalAmount {
    amount
    currencyCode
  }
  totalTaxAmount {
    amount
    currencyCode
  }
}
totalQuantity
lines(first: 100) {
  edges {
    node {
      id
      quantity
      cost {
        totalAmount {
          amount
          currencyCode
        }
      }
      merchandise {
        ... on ProductVariant {
          id
          title
          product {
            title
          }
        }
      }
    }
  }
}`

const getCartQuery = `query getCart($cartId: ID!) {
  cart(id: $cartId) {` + cartFields + `
  }
}`

const createCartMutation = `mutation createCart($lineItems: [CartLineInput!], $buyerIdentity: CartBuyerIdentityInput) {
  cartCreate(input: {lines: $lineItems, buyerIdentity: $buyerIdentity}) {
    cart {` + cartFields + `
    }
  }
}`

const addLinesMutation = `mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {` + cartFields + `
    }
  }
}`

const updateLinesMutation = `mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {` + cartFields + `
    }
  }
}`

const removeLinesMutation = `mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {` + cartFields + `
    }
  }
}`

const updateBuyerIdentityMutation = `mutation updateCartBuyerIdentity($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart {` + cartFields + `
    }
  }
}`

// productFields は商品クエリで共通のフィールド選択。
const productFields = `
id
handle
title
description
descriptionHtml
tags
variants(first: 250) {
  edges {
    node {
      id
      title
      availableForSale
      price {
        amount
        currencyCode
      }
    }
  }
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
}`

const getProductQuery = `query getProduct($handle: String!) {
  product(handle: $handle) {` + productFields + `
  }
}`

const getProductsQuery = `query getProducts($sortKey: ProductSortKeys, $reverse: Boolean, $query: String) {
  products(sortKey: $sortKey, reverse: $reverse, query: $query, first: 100) {
    edges {
      node {` + productFields + `
      }
    }
  }
}`

const getCollectionProductsQuery = `query getCollectionProducts($handle: String!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
  collection(handle: $handle) {
    products(sortKey: $sortKey, reverse: $reverse, first: 100) {
      edges {
        node {` + productFields + `
        }
      }
    }
  }
}`

const getCollectionsQuery = `query getCollections {
  collections(first: 100, sortKey: TITLE) {
    edges {
      node {
        handle
        title
        description
      }
    }
  }
}`
